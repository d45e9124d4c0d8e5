package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var viewsFS embed.FS

var homeTmpl *template.Template

// loadTemplatesFromFS parses the page templates from fsys/dir. Split out so
// tests can feed broken filesystems.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	homeTmpl = tmpl
	return nil
}

// LoadTemplates loads the embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// Route is one line of the route listing.
type Route struct {
	Path        string
	Description string
}

type HomeData struct {
	Title     string
	FirstDate string
	LastDate  string
	Routes    []Route
}

func RenderHome(w io.Writer, data *HomeData) error {
	if homeTmpl == nil {
		return errors.New("home template not loaded: call views.LoadTemplates during startup")
	}
	return homeTmpl.ExecuteTemplate(w, "home.html", data)
}
