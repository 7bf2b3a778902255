package types

import (
	"sort"
	"strings"
)

// ComputeLineColumn resolves a byte offset in content.
// Lines are 1-indexed and columns are 0-indexed (the column counts the bytes
// between the previous newline and the offset). Offsets past the end are
// clamped to len(content).
func ComputeLineColumn(content string, offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(content) {
		offset = len(content)
	}
	line = strings.Count(content[:offset], "\n") + 1
	column = offset - (strings.LastIndexByte(content[:offset], '\n') + 1)
	return line, column
}

// LineIndex answers offset-to-line queries in O(log n) for content that is
// queried many times, such as when every AST node records its line.
type LineIndex struct {
	newlines []int
}

// NewLineIndex records the offset of every newline in content.
func NewLineIndex(content string) *LineIndex {
	idx := &LineIndex{}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			idx.newlines = append(idx.newlines, i)
		}
	}
	return idx
}

// Line returns the 1-indexed line containing offset.
func (idx *LineIndex) Line(offset int) int {
	return sort.SearchInts(idx.newlines, offset) + 1
}

// Lines returns the number of lines in the indexed content.
func (idx *LineIndex) Lines() int {
	return len(idx.newlines) + 1
}
