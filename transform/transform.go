// Package transform normalises author markdown and Quarto output before it is
// handed to the markdown renderer. Every step is a best-effort string rewrite:
// input that does not match a pattern passes through untouched.
package transform

// Options configures Apply.
type Options struct {
	// Image renders images inside rewritten figures. Nil uses PlainImage.
	Image ImageFunc
}

// Result is the transformed body and the table of contents taken from it.
type Result struct {
	Toc     []TocItem
	Content string
}

// Apply runs all transforms in order: TOC extraction, math tag stripping,
// block math normalisation and figure rewriting.
func Apply(body string, opts Options) Result {
	toc, content := ExtractToc(body)
	content = StripMathTags(content)
	content = NormalizeBlockMath(content)
	content = RewriteFigures(content, opts.Image)
	return Result{Toc: toc, Content: content}
}
