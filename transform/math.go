package transform

import (
	"regexp"
	"strings"
)

var (
	mathOpen  = regexp.MustCompile(`<math>\s*`)
	mathClose = regexp.MustCompile(`\s*</math>`)
)

// StripMathTags removes <math> wrappers so the $ and $$ delimiters inside
// them are picked up by the markdown parser. A "/<math>" closing typo is
// repaired first.
func StripMathTags(body string) string {
	body = strings.ReplaceAll(body, "/<math>", "</math>")
	body = mathOpen.ReplaceAllString(body, "")
	return mathClose.ReplaceAllString(body, "")
}

// NormalizeBlockMath moves a "$$" block opener that follows prose on the same
// line into its own paragraph. Fenced code is left alone.
func NormalizeBlockMath(body string) string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))

	fence := ""
	inMath := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			if ClosesFence(trimmed, fence) {
				fence = ""
			}
			out = append(out, line)
			continue
		}
		if f := OpenFence(trimmed); f != "" && !inMath {
			fence = f
			out = append(out, line)
			continue
		}

		if strings.Count(line, "$$")%2 == 0 {
			out = append(out, line)
			continue
		}

		if inMath {
			inMath = false
			out = append(out, line)
			continue
		}

		inMath = true
		idx := strings.LastIndex(line, "$$")
		prose := strings.TrimRight(line[:idx], " \t")
		if strings.TrimSpace(prose) == "" {
			out = append(out, line)
			continue
		}
		out = append(out, prose, "", line[idx:])
	}

	return strings.Join(out, "\n")
}
