package transform

import (
	"regexp"
	"strings"
)

// TocItem is one entry of a page's table of contents.
type TocItem struct {
	ID    string
	Text  string
	Level int
}

// tocText matches entry link text. Code spans and balanced brackets are
// allowed; a stray bracket means two entries ran together.
const tocText = "(?:[^\\[\\]`]|`[^`]*`|\\[[^\\[\\]]*\\])+"

var (
	tocEntryStart = regexp.MustCompile(`^(\s*)- \[`)
	tocEntry      = regexp.MustCompile(`^- \[(` + tocText + `)\]\(#([^)\s]+)\)$`)
)

// ExtractToc pulls a leading list of "- [text](#anchor)" links out of body.
// Unindented entries are level 2, indented ones level 3. When body does not
// start with such a block, it is returned unchanged with a nil toc.
func ExtractToc(body string) ([]TocItem, string) {
	lines := strings.Split(body, "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}

	var (
		toc     []TocItem
		pending string
		indent  int
		open    bool
	)

	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			break
		}

		if m := tocEntryStart.FindStringSubmatch(line); m != nil && !open {
			pending = strings.TrimSpace(line)
			indent = len(m[1])
		} else if open {
			pending += " " + strings.TrimSpace(line)
		} else {
			break
		}

		item, ok := parseTocEntry(pending, indent)
		open = !ok
		if ok {
			toc = append(toc, item)
		}
	}

	if len(toc) == 0 || open {
		return nil, body
	}

	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return toc, strings.Join(lines[i:], "\n")
}

func parseTocEntry(entry string, indent int) (TocItem, bool) {
	m := tocEntry.FindStringSubmatch(entry)
	if m == nil {
		return TocItem{}, false
	}

	level := 2
	if indent > 0 {
		level = 3
	}
	return TocItem{
		ID:    m[2],
		Text:  strings.Join(strings.Fields(m[1]), " "),
		Level: level,
	}, true
}
