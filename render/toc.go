package render

import (
	"strings"

	"golang.org/x/net/html"

	"adventune/folio/transform"
)

// HeadingToc lists the h2 and h3 elements of a rendered fragment that carry
// an id, in document order. Headings without id or text are skipped.
func HeadingToc(fragment string) []transform.TocItem {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var toc []transform.TocItem
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "h2" || n.Data == "h3") {
			id := attr(n, "id")
			text := strings.Join(strings.Fields(textContent(n)), " ")
			if id != "" && text != "" {
				level := 2
				if n.Data == "h3" {
					level = 3
				}
				toc = append(toc, transform.TocItem{ID: id, Text: text, Level: level})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return toc
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
