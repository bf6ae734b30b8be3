// Package site composes content, rendering and listings into the pages of
// the portfolio, both as a route table for static builds and as an
// http.Handler for serving.
package site

import (
	"fmt"
	"html/template"
	"path/filepath"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"adventune/folio/config"
	"adventune/folio/content"
	"adventune/folio/cv"
	"adventune/folio/highlight"
	"adventune/folio/render"
)

const cvData = "cv.csv"

// snapshot is the content a page is rendered from. It is never modified
// after it has been published.
type snapshot struct {
	store *content.Store
	cv    []cv.Entry
}

// Site renders pages from the most recently loaded content.
type Site struct {
	cfg       config.Config
	renderer  *render.Renderer
	templates map[string]*template.Template
	state     atomic.Pointer[snapshot]
}

// New builds the renderer and templates for cfg and loads the content.
func New(cfg config.Config) (*Site, error) {
	hl, err := highlight.New(highlight.Options{
		Light:             cfg.Highlight.Light,
		Dark:              cfg.Highlight.Dark,
		TabWidth:          cfg.Highlight.TabWidth,
		ColorReplacements: cfg.Highlight.ColorReplacements,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up highlighter: %w", err)
	}

	s := &Site{
		cfg: cfg,
		renderer: render.New(render.Options{
			Highlighter:  hl,
			ImageWidth:   cfg.Images.Width,
			ImageHeight:  cfg.Images.Height,
			ResolveImage: render.TemplateResolver(cfg.Images.Resolver),
		}),
	}

	if s.templates, err = parseTemplates(s.funcs()); err != nil {
		return nil, err
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload reads the content and data directories again and swaps the result
// in. Requests already being served keep the previous content.
func (s *Site) Reload() error {
	store, err := content.Load(s.cfg.ContentDir, s.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	entries, err := cv.Load(filepath.Join(s.cfg.DataDir, cvData))
	if err != nil {
		return fmt.Errorf("failed to load cv: %w", err)
	}

	s.state.Store(&snapshot{store: store, cv: entries})
	log.Info().Int("posts", len(store.Posts)).Int("cv", len(entries)).Msg("Content loaded")
	return nil
}

func (s *Site) current() *snapshot {
	return s.state.Load()
}
