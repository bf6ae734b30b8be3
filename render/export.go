package render

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ExportMarkdown renders body as a document and converts the result back to
// plain markdown: transforms applied, figures resolved, code unhighlighted.
func (r *Renderer) ExportMarkdown(body string) (string, error) {
	opts := r.opts
	opts.Highlighter = nil
	doc := New(opts).RenderDocument(body)

	md, err := htmltomarkdown.ConvertString(string(doc.HTML))
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return md, nil
}
