package render

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"adventune/folio/transform"
)

const codeFoldClass = "code-fold"

var (
	detailsOpen  = regexp.MustCompile(`(?i)<details\b`)
	detailsClose = regexp.MustCompile(`(?i)</details>`)
	detailsBlock = regexp.MustCompile(`(?is)^\s*<details\b([^>]*)>(.*)</details>(.*)$`)
	summaryTag   = regexp.MustCompile(`(?is)<summary\b[^>]*>.*?</summary>`)
	classAttr    = regexp.MustCompile(`(?i)\bclass\s*=\s*"([^"]*)"`)
	openAttr     = regexp.MustCompile(`(?i)(^|\s)open(\s|=|$)`)
)

// segment is either plain markdown or a <details> region.
type segment struct {
	markdown string
	fold     *fold
}

type fold struct {
	codeFold bool
	open     bool
	inner    string
}

// splitFolds cuts md into plain markdown and top-level <details> regions.
// Regions inside fenced code are not considered.
func splitFolds(md string) []segment {
	lines := strings.Split(md, "\n")

	var (
		segs  []segment
		plain []string
		fence string
	)
	flush := func() {
		if len(plain) > 0 {
			segs = append(segs, segment{markdown: strings.Join(plain, "\n")})
			plain = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			if transform.ClosesFence(trimmed, fence) {
				fence = ""
			}
			plain = append(plain, line)
			continue
		}
		if f := transform.OpenFence(trimmed); f != "" {
			fence = f
			plain = append(plain, line)
			continue
		}
		if !strings.HasPrefix(strings.ToLower(trimmed), "<details") {
			plain = append(plain, line)
			continue
		}

		end, ok := detailsEnd(lines, i)
		if !ok {
			plain = append(plain, line)
			continue
		}

		f, trailing, ok := parseFold(strings.Join(lines[i:end+1], "\n"))
		if !ok {
			plain = append(plain, line)
			continue
		}

		flush()
		segs = append(segs, segment{fold: f})
		if strings.TrimSpace(trailing) != "" {
			plain = append(plain, trailing)
		}
		i = end
	}
	flush()

	return segs
}

// detailsEnd finds the line closing the <details> opened on lines[start].
func detailsEnd(lines []string, start int) (int, bool) {
	depth := 0
	fence := ""
	for j := start; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if fence != "" {
			if transform.ClosesFence(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if f := transform.OpenFence(trimmed); f != "" && j != start {
			fence = f
			continue
		}

		depth += len(detailsOpen.FindAllStringIndex(lines[j], -1))
		depth -= len(detailsClose.FindAllStringIndex(lines[j], -1))
		if depth <= 0 {
			return j, true
		}
	}
	return 0, false
}

func parseFold(raw string) (*fold, string, bool) {
	m := detailsBlock.FindStringSubmatch(raw)
	if m == nil {
		return nil, "", false
	}

	attrs := m[1]
	f := &fold{
		open:  openAttr.MatchString(attrs),
		inner: summaryTag.ReplaceAllString(m[2], ""),
	}
	if c := classAttr.FindStringSubmatch(attrs); c != nil {
		for _, class := range strings.Fields(c[1]) {
			if class == codeFoldClass {
				f.codeFold = true
			}
		}
	}
	return f, m[3], true
}

// writeFold renders a code fold as a collapsible section. Other <details>
// elements are dropped.
func (r *Renderer) writeFold(w io.Writer, f *fold) {
	if !f.codeFold {
		log.Debug().Msg("Dropping details element without code-fold class")
		return
	}

	io.WriteString(w, `<details class="code-fold not-prose my-4"`)
	if f.open {
		io.WriteString(w, " open")
	}
	io.WriteString(w, ">\n")
	io.WriteString(w, "<summary class=\"code-fold-trigger\"><span class=\"code-fold-icon\" aria-hidden=\"true\"></span><span>Code</span></summary>\n")
	io.WriteString(w, "<div class=\"code-fold-content mt-2\">\n")
	io.WriteString(w, string(r.Render(f.inner)))
	io.WriteString(w, "</div>\n</details>\n")
}
