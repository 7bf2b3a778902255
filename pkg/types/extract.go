package types

import "strings"

// ExtractLines returns the line before, the line itself and the line after
// the given 1-indexed line. Lines outside the content come back empty.
func ExtractLines(content string, line int) []string {
	lines := strings.Split(content, "\n")
	extract := make([]string, 3)
	for k := 0; k < 3; k++ {
		n := line - 2 + k
		if n >= 0 && n < len(lines) {
			extract[k] = lines[n]
		}
	}
	return extract
}

// LineAt returns the text of the 1-indexed line, or "" when out of range.
func LineAt(content string, line int) string {
	return ExtractLines(content, line)[1]
}
