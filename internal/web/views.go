package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/hoosfit/pkg"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "templates/layout.html"

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format(time.DateOnly)
	},
}

// page is what every template gets: the logged user for the nav bar and
// the page specific data.
type page struct {
	Title string
	User  string
	Data  any
}

type Views struct {
	pages map[string]*template.Template
}

// NewViews parses every page together with the shared layout.
func NewViews() (*Views, error) {
	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := map[string]*template.Template{}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(f, "templates/"), ".html")
		tpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}

	return &Views{pages: pages}, nil
}

func (v *Views) Render(w http.ResponseWriter, status int, name string, p page) {
	tpl, ok := v.pages[name]
	if !ok {
		log.Errorf("render: unknown page %s", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		log.Errorf("render %s: %s", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, buf.Bytes(), status)
}
