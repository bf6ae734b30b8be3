package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"adventune/folio/config"
	"adventune/folio/content"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const baseTemplate = "base.html"

// Static returns the embedded assets served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// view is the data every page template receives.
type view struct {
	Site  config.Site
	Title string
	Path  string
	Dev   bool
	Data  any
}

// parseTemplates parses the base layout with its partials once and clones it
// for each page, so every page defines its own "content" block.
func parseTemplates(funcs template.FuncMap) (map[string]*template.Template, error) {
	base, err := template.New(baseTemplate).Funcs(funcs).ParseFS(templateFS,
		"templates/"+baseTemplate,
		"templates/partials/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base layout and partials: %w", err)
	}

	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, p); err != nil {
			return nil, fmt.Errorf("failed to parse page layout %s: %w", p, err)
		}
		templates[strings.TrimSuffix(path.Base(p), ".html")] = t
	}
	return templates, nil
}

func (s *Site) funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"tagSlug":    content.TagSlug,
		"markdown":   s.renderer.RenderInline,
		"hasPrefix":  strings.HasPrefix,
	}
}

func (s *Site) execute(w io.Writer, page, title, urlPath string, data any) error {
	t, ok := s.templates[page]
	if !ok {
		return fmt.Errorf("no template for page %q", page)
	}

	v := view{Site: s.cfg.Site, Title: title, Path: urlPath, Dev: s.cfg.Dev, Data: data}
	if err := t.ExecuteTemplate(w, baseTemplate, v); err != nil {
		return fmt.Errorf("failed to execute %s template: %w", page, err)
	}
	return nil
}

// formatDate renders an ISO date as "January 2, 2006". Unparseable input is
// returned as is.
func formatDate(date string) string {
	t, err := time.Parse(content.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}

// tagTitle turns a tag slug back into a heading, e.g. "open-science" becomes
// "Open Science".
func tagTitle(tagSlug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(tagSlug, "-", " "))
}
