package render

import (
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/rs/zerolog/log"
)

var languageWord = regexp.MustCompile(`^\w+`)

func (r *Renderer) renderHook(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	switch n := node.(type) {
	case *ast.Image:
		if entering {
			io.WriteString(w, r.ImageTag(string(n.Destination), plainText(n)))
		}
		return ast.SkipChildren, true
	case *ast.CodeBlock:
		r.writeCodeBlock(w, n)
		return ast.GoToNext, true
	case *ast.Code:
		fmt.Fprintf(w, `<code class="not-prose bg-muted p-1 rounded">%s</code>`, template.HTMLEscapeString(string(n.Literal)))
		return ast.GoToNext, true
	case *ast.Table:
		if entering {
			io.WriteString(w, "<div class=\"overflow-auto\">\n<table class=\"whitespace-nowrap max-w-fit mx-auto\">\n")
		} else {
			io.WriteString(w, "</table>\n</div>\n")
		}
		return ast.GoToNext, true
	}
	return ast.GoToNext, false
}

// ImageTag renders a post image at the configured size. An empty source
// renders nothing.
func (r *Renderer) ImageTag(src, alt string) string {
	if src == "" {
		return ""
	}
	return fmt.Sprintf(`<img src="%s" alt="%s" width="%d" height="%d" class="rounded mx-auto my-4" loading="lazy">`,
		template.HTMLEscapeString(r.opts.ResolveImage(src, r.opts.ImageWidth)),
		template.HTMLEscapeString(alt),
		r.opts.ImageWidth,
		r.opts.ImageHeight,
	)
}

func (r *Renderer) writeCodeBlock(w io.Writer, n *ast.CodeBlock) {
	source := string(n.Literal)
	lang := codeLanguage(n.Info)

	if lang != "" && r.opts.Highlighter != nil {
		highlighted, err := r.opts.Highlighter.Highlight(source, lang)
		if err == nil {
			fmt.Fprintf(w, "<div class=\"code-block group relative my-4\" data-language=\"%s\">\n", lang)
			fmt.Fprintf(w, "<div class=\"code-block-toolbar\"><span class=\"code-block-language\">%s</span>", strings.ToUpper(lang))
			io.WriteString(w, "<button type=\"button\" class=\"code-block-copy\" aria-label=\"Copy code\">Copy</button></div>\n")
			io.WriteString(w, highlighted)
			io.WriteString(w, "\n</div>\n")
			return
		}
		log.Warn().Err(err).Str("language", lang).Msg("Failed to highlight code block")
	}

	io.WriteString(w, `<pre class="bg-muted rounded p-4 overflow-x-auto my-4 text-sm">`)
	if lang != "" {
		fmt.Fprintf(w, `<code class="language-%s">`, lang)
	} else {
		io.WriteString(w, "<code>")
	}
	io.WriteString(w, template.HTMLEscapeString(source))
	io.WriteString(w, "</code></pre>\n")
}

// codeLanguage returns the leading word of a fence info string, or "" when
// the block carries no usable language (indented code, "{r}" style info).
func codeLanguage(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}
	return languageWord.FindString(fields[0])
}

func plainText(node ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if leaf := n.AsLeaf(); leaf != nil && entering {
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return b.String()
}
