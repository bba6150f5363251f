// Package web embeds the dashboard's HTML templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"
)

// Page names accepted by Templates.Render.
const (
	PageDashboard   = "dashboard.html"
	PageError       = "error.html"
	PageImpressum   = "impressum.html"
	PageDatenschutz = "datenschutz.html"
)

var pages = []string{PageDashboard, PageError, PageImpressum, PageDatenschutz}

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is the value every template executes against. Data holds the page-specific payload.
type Page struct {
	Title string
	Data  any
}

// ErrorData is the payload of the error page.
type ErrorData struct {
	Status    int
	Message   string
	RequestID string
}

// Templates holds one parsed template set per page, each sharing the layout.
type Templates struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"year": func() int { return time.Now().Year() },
}

// ParseTemplates parses the embedded layout together with every page.
func ParseTemplates() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		tpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		t.pages[name] = tpl
	}
	return t, nil
}

// Render executes the named page into w.
func (t *Templates) Render(w io.Writer, name string, page Page) error {
	tpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tpl.ExecuteTemplate(w, "layout", page)
}

// Static returns the asset tree served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
