package transform

import "strings"

// OpenFence returns the run of three or more backticks or tildes that opens a
// fenced code block on the trimmed line, or "" when the line opens none. A
// backtick fence may not carry backticks in its info string.
func OpenFence(trimmed string) string {
	if trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return ""
	}

	n := 0
	for n < len(trimmed) && trimmed[n] == trimmed[0] {
		n++
	}
	if n < 3 {
		return ""
	}
	if trimmed[0] == '`' && strings.Contains(trimmed[n:], "`") {
		return ""
	}
	return trimmed[:n]
}

// ClosesFence reports whether the trimmed line closes the block opened by
// marker: the same character repeated at least as often, with nothing after.
func ClosesFence(trimmed, marker string) bool {
	if marker == "" {
		return false
	}

	n := 0
	for n < len(trimmed) && trimmed[n] == marker[0] {
		n++
	}
	return n >= len(marker) && strings.TrimSpace(trimmed[n:]) == ""
}
