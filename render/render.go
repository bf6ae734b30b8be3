// Package render converts transformed markdown into the HTML used by post,
// page and project templates.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"adventune/folio/transform"
)

// Highlighter turns source code of a language into coloured HTML.
type Highlighter interface {
	Highlight(source, language string) (string, error)
}

// ImageResolver maps an image source to the URL served for a given width.
type ImageResolver func(src string, width int) string

// Options configures a Renderer. Zero values fall back to the defaults.
type Options struct {
	// Highlighter is optional; without it every code block renders plain.
	Highlighter  Highlighter
	ImageWidth   int
	ImageHeight  int
	ResolveImage ImageResolver
}

const (
	DefaultImageWidth  = 800
	DefaultImageHeight = 600
)

// Renderer renders markdown with the site's element overrides.
// It holds no per-document state and can be shared.
type Renderer struct {
	opts Options
}

// Document is a rendered page body with its table of contents.
type Document struct {
	Toc  []transform.TocItem
	HTML template.HTML
}

func New(opts Options) *Renderer {
	if opts.ImageWidth <= 0 {
		opts.ImageWidth = DefaultImageWidth
	}
	if opts.ImageHeight <= 0 {
		opts.ImageHeight = DefaultImageHeight
	}
	if opts.ResolveImage == nil {
		opts.ResolveImage = func(src string, _ int) string { return src }
	}
	return &Renderer{opts: opts}
}

// TemplateResolver builds an ImageResolver from a URL template with {src}
// and {width} placeholders. An empty template keeps sources unchanged.
func TemplateResolver(tmpl string) ImageResolver {
	if tmpl == "" {
		return nil
	}
	return func(src string, width int) string {
		if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
			return src
		}
		r := strings.NewReplacer("{src}", src, "{width}", fmt.Sprint(width))
		return r.Replace(tmpl)
	}
}

// RenderDocument transforms and renders a post or page body. The table of
// contents comes from an embedded TOC block when present, otherwise from the
// h2/h3 headings of the rendered output.
func (r *Renderer) RenderDocument(body string) Document {
	res := transform.Apply(body, transform.Options{Image: r.ImageTag})
	out := r.Render(res.Content)

	toc := res.Toc
	if len(toc) == 0 {
		toc = HeadingToc(string(out))
	}
	return Document{Toc: toc, HTML: out}
}

// Render converts markdown to HTML. Code fold regions are rendered as
// collapsible sections around their separately rendered content.
func (r *Renderer) Render(md string) template.HTML {
	var b strings.Builder
	for _, seg := range splitFolds(md) {
		if seg.fold != nil {
			r.writeFold(&b, seg.fold)
			continue
		}
		b.Write(r.mdToHTML([]byte(seg.markdown)))
	}
	return template.HTML(b.String())
}

// RenderInline renders a short markdown snippet without its paragraph wrapper.
func (r *Renderer) RenderInline(md string) template.HTML {
	out := strings.TrimSpace(string(r.mdToHTML([]byte(md))))
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out)
}

// Converts markdown to HTML with the element overrides installed.
func (r *Renderer) mdToHTML(md []byte) []byte {
	// create markdown parser with extensions
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock | parser.MathJax
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	// create HTML renderer with extensions
	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	opts := html.RendererOptions{Flags: htmlFlags, RenderNodeHook: r.renderHook}
	renderer := html.NewRenderer(opts)

	return markdown.Render(doc, renderer)
}
