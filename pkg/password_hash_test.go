package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	assert.True(t, CheckPasswordHash("testpass", "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i"))

	passwordHash, err := HashPasswordWithCost("squat-rack", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("squat-rack", passwordHash))
	assert.False(t, CheckPasswordHash("bench-press", passwordHash))
}
