package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"pokemon-map/internal/shared/i18n"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "layout.html"

// Renderer holds one parsed template set per page, each combined with the
// shared layout.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func New(logger *slog.Logger) (*Renderer, error) {
	return NewFromFS(templatesFS, logger)
}

func NewFromFS(fsys fs.FS, logger *slog.Logger) (*Renderer, error) {
	base, err := template.New(layoutFile).Funcs(funcs()).ParseFS(fsys, path.Join("templates", layoutFile))
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}

		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if _, err := page.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[strings.TrimSuffix(name, ".html")] = page
	}

	logger.Debug("Templates loaded", "component", "render", "count", len(pages))
	return &Renderer{pages: pages, logger: logger}, nil
}

// Page is the data every page template receives.
type Page struct {
	Lang      string
	StaticURL string
	Data      any
}

// HTML renders page name into a buffer first so template errors never
// produce a half-written 200 response.
func (rn *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, name string, data any, staticURL string) error {
	page, ok := rn.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	err := page.ExecuteTemplate(&buf, layoutFile, Page{
		Lang:      i18n.FromContext(r.Context()).String(),
		StaticURL: staticURL,
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rn.logger.Warn("Failed to write page", "component", "render", "template", name, "error", err)
	}
	return nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"t": func(lang, key string) string {
			tag, ok := i18n.ParseTag(lang)
			if !ok {
				tag = i18n.Default()
			}
			return i18n.Printer(tag).Sprintf(key)
		},
	}
}
