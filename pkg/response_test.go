package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponseBytes(t *testing.T) {
	rec := httptest.NewRecorder()

	testJson := `{"key":"val"}`
	WriteResponseBytes(rec, ContentType.JSON, []byte(testJson), http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, ContentType.JSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, testJson, rec.Body.String())
}

func TestWriteHTMLResponseOK(t *testing.T) {
	rec := httptest.NewRecorder()

	page := `<p>No awards earned yet :(</p>`
	WriteHTMLResponseOK(rec, []byte(page))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentType.HTML, rec.Header().Get("Content-Type"))
	assert.Equal(t, page, rec.Body.String())
}

func TestWriteTextResponseOK(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteTextResponseOK(rec, "test text")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentType.Text, rec.Header().Get("Content-Type"))
	assert.Equal(t, "test text", rec.Body.String())
}

func TestSeeOther(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/profiles/bob/exercise/submit/", nil)

	SeeOther(rec, req, "/profiles/bob/exercise/view/")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profiles/bob/exercise/view/", rec.Header().Get("Location"))
}
