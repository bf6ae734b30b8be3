package transform

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

// ImageFunc renders the <img> tag used inside a rewritten figure.
type ImageFunc func(src, alt string) string

// FigureIDPrefixes lists the div ids recognised as figures.
var FigureIDPrefixes = []string{"fig-"}

var figureDiv = regexp.MustCompile(`(?s)<div id="([^"]+)"[^>]*>\s*!\[([^\]]*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)(?:\{[^}]*\})?(.*?)</div>`)

// RewriteFigures turns Quarto figure divs into a single <figure> block.
// Blank lines inside the div would otherwise split it into separate HTML
// fragments during parsing.
func RewriteFigures(body string, image ImageFunc) string {
	if image == nil {
		image = PlainImage
	}

	return figureDiv.ReplaceAllStringFunc(body, func(match string) string {
		m := figureDiv.FindStringSubmatch(match)
		id := m[1]
		if !hasFigurePrefix(id) {
			return match
		}

		var b strings.Builder
		fmt.Fprintf(&b, "<figure id=\"%s\">\n", template.HTMLEscapeString(id))
		b.WriteString(image(m[3], m[2]))
		b.WriteString("\n")
		if caption := strings.Join(strings.Fields(m[4]), " "); caption != "" {
			fmt.Fprintf(&b, "<figcaption>%s</figcaption>\n", template.HTMLEscapeString(caption))
		}
		b.WriteString("</figure>")
		return b.String()
	})
}

// PlainImage renders an unstyled image tag.
func PlainImage(src, alt string) string {
	return fmt.Sprintf(`<img src="%s" alt="%s">`, template.HTMLEscapeString(src), template.HTMLEscapeString(alt))
}

func hasFigurePrefix(id string) bool {
	for _, prefix := range FigureIDPrefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}
