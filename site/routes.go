package site

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"adventune/folio/content"
	"adventune/folio/listing"
)

// NotFoundPath is where the static build writes the not found page.
const NotFoundPath = "/404.html"

// Page is a route of the static site. Paths ending in a slash are
// directories whose index the page renders.
type Page struct {
	Path   string
	Render func(w io.Writer) error
}

// Routes lists every page of the current content. Unknown slugs, tags and
// projects have no route.
func (s *Site) Routes() []Page {
	st := s.current()

	pages := []Page{
		{Path: "/", Render: func(w io.Writer) error { return s.renderHome(w, st) }},
		{Path: "/blog/", Render: func(w io.Writer) error { return s.renderBlog(w, st, 1) }},
		{Path: "/tags/", Render: func(w io.Writer) error { return s.renderTags(w, st) }},
		{Path: "/about/", Render: func(w io.Writer) error { return s.renderAbout(w, st) }},
		{Path: "/cv/", Render: func(w io.Writer) error { return s.renderCV(w, st) }},
		{Path: "/projects/", Render: func(w io.Writer) error { return s.renderProjects(w, st) }},
		{Path: NotFoundPath, Render: s.renderNotFound},
	}

	published := listing.Published(st.store.Posts, false)
	total := listing.TotalPages(len(published), s.cfg.PostsPerPage)
	for n := 2; n <= total; n++ {
		pages = append(pages, Page{Path: blogURL(n), Render: func(w io.Writer) error { return s.renderBlog(w, st, n) }})
	}

	for _, post := range listing.Published(st.store.Posts, s.cfg.Dev) {
		slug := post.Slug
		pages = append(pages,
			Page{Path: "/blog/" + slug + "/", Render: func(w io.Writer) error { return s.renderPost(w, st, slug) }},
			Page{Path: "/blog/" + slug + "/index.md", Render: func(w io.Writer) error { return s.renderPostMarkdown(w, st, slug) }},
		)
	}

	seen := map[string]bool{}
	for _, tag := range listing.SortTagsByCount(listing.CountTags(st.store.Posts, s.cfg.Dev)) {
		slug := content.TagSlug(tag)
		if seen[slug] {
			continue
		}
		seen[slug] = true
		pages = append(pages, Page{Path: "/tags/" + slug + "/", Render: func(w io.Writer) error { return s.renderTag(w, st, slug) }})
	}

	for _, project := range st.store.Projects {
		id := project.ID
		if !strings.HasPrefix(project.URL, "/projects/") {
			continue
		}
		pages = append(pages, Page{Path: "/projects/" + id + "/", Render: func(w io.Writer) error { return s.renderProject(w, st, id) }})
	}

	return pages
}

type pageFunc func(w io.Writer, r *http.Request, st *snapshot) error

const (
	contentTypeHTML     = "text/html; charset=utf-8"
	contentTypeMarkdown = "text/markdown; charset=utf-8"
)

// Handler serves the pages of Routes from the current content on every
// request, plus the embedded static assets.
func (s *Site) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.serve(contentTypeHTML, func(w io.Writer, _ *http.Request, st *snapshot) error {
		return s.renderHome(w, st)
	}))
	mux.HandleFunc("GET /blog/{$}", s.serve(contentTypeHTML, func(w io.Writer, r *http.Request, st *snapshot) error {
		return s.renderBlog(w, st, queryPage(r))
	}))
	mux.HandleFunc("GET /blog/page/{n}/{$}", s.serve(contentTypeHTML, func(w io.Writer, r *http.Request, st *snapshot) error {
		n, err := strconv.Atoi(r.PathValue("n"))
		if err != nil {
			return content.ErrNotFound
		}
		return s.renderBlog(w, st, n)
	}))
	mux.HandleFunc("GET /blog/{rest...}", s.servePost)
	mux.HandleFunc("GET /tags/{$}", s.serve(contentTypeHTML, func(w io.Writer, _ *http.Request, st *snapshot) error {
		return s.renderTags(w, st)
	}))
	mux.HandleFunc("GET /tags/{tag}/{$}", s.serve(contentTypeHTML, func(w io.Writer, r *http.Request, st *snapshot) error {
		return s.renderTag(w, st, r.PathValue("tag"))
	}))
	mux.HandleFunc("GET /about/{$}", s.serve(contentTypeHTML, func(w io.Writer, _ *http.Request, st *snapshot) error {
		return s.renderAbout(w, st)
	}))
	mux.HandleFunc("GET /cv/{$}", s.serve(contentTypeHTML, func(w io.Writer, _ *http.Request, st *snapshot) error {
		return s.renderCV(w, st)
	}))
	mux.HandleFunc("GET /projects/{$}", s.serve(contentTypeHTML, func(w io.Writer, _ *http.Request, st *snapshot) error {
		return s.renderProjects(w, st)
	}))
	mux.HandleFunc("GET /projects/{id}/{$}", s.serve(contentTypeHTML, func(w io.Writer, r *http.Request, st *snapshot) error {
		return s.renderProject(w, st, r.PathValue("id"))
	}))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(Static())))
	mux.HandleFunc("/", s.notFound)

	return mux
}

// servePost serves /blog/{slug}/ and /blog/{slug}/index.md. Slugs may span
// several segments, like posts kept in year directories.
func (s *Site) servePost(w http.ResponseWriter, r *http.Request) {
	rest := r.PathValue("rest")

	if slug, ok := strings.CutSuffix(rest, "/index.md"); ok && slug != "" {
		s.serve(contentTypeMarkdown, func(w io.Writer, _ *http.Request, st *snapshot) error {
			return s.renderPostMarkdown(w, st, slug)
		})(w, r)
		return
	}
	if slug, ok := strings.CutSuffix(rest, "/"); ok && slug != "" {
		s.serve(contentTypeHTML, func(w io.Writer, _ *http.Request, st *snapshot) error {
			return s.renderPost(w, st, slug)
		})(w, r)
		return
	}
	s.notFound(w, r)
}

// queryPage reads the ?page= parameter. Missing, zero or malformed values
// mean the first page.
func queryPage(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n == 0 {
		return 1
	}
	return n
}

// serve renders fn into a buffer so a failing page never leaves a partial
// response. content.ErrNotFound becomes a 404.
func (s *Site) serve(contentType string, fn pageFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		err := fn(&buf, r, s.current())
		if errors.Is(err, content.ErrNotFound) {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("Page not found")
			s.notFound(w, r)
			return
		}
		if err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to render page")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		if _, err := buf.WriteTo(w); err != nil {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to write response")
		}
	}
}

func (s *Site) notFound(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.renderNotFound(&buf); err != nil {
		log.Error().Err(err).Msg("Failed to render not found page")
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusNotFound)
	buf.WriteTo(w)
}
