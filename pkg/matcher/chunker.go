package matcher

import "strings"

// Chunk is a contiguous slice of the normalized input. Chunks partition the
// input; each one but the last ends right after a closing brace.
type Chunk struct {
	Content     string // The chunk text
	StartOffset int    // Byte offset in the input where this chunk starts
	EndOffset   int    // Byte offset in the input where this chunk ends
	Index       int    // Chunk number (0-indexed)
}

// UnbalancedError reports braces that do not pair up.
type UnbalancedError struct {
	Index   int
	Message string
}

func (e *UnbalancedError) Error() string {
	return e.Message
}

var (
	chunkSkip    = MustCompile(`^(?:@\{[\w-]+\}|[^"'` + "`" + `\{\}\/\(\)\\])+`)
	chunkString  = MustCompile(`^(?:"((?:[^"\\\r\n]|\\.)*)"|'((?:[^'\\\r\n]|\\.)*)'|` + "`((?:[^`]|\\\\.)*)`)")
	chunkComment = MustCompile(`^(?:\/\*(?:[^*]|\*+[^\/*])*\*+\/|\/\/.*)`)
)

// Normalize converts CRLF line endings to LF and drops one leading byte
// order mark.
func Normalize(input string) string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	return strings.TrimPrefix(input, "\uFEFF")
}

// ChunkContent splits input into chunks at closing braces. Strings and
// comments are consumed whole so braces inside them are not counted.
// Inside a parenthesised group a brace or parenthesis of any kind closes the
// group. An error is returned when the braces are not balanced.
func ChunkContent(input string) ([]Chunk, error) {
	var chunks []Chunk
	level := 0
	inParam := false
	start := 0

	closeChunk := func(end int) {
		chunks = append(chunks, Chunk{
			Content:     input[start:end],
			StartOffset: start,
			EndOffset:   end,
			Index:       len(chunks),
		})
		start = end
	}

	for i := 0; i < len(input); {
		if m := prefix(chunkSkip, input[i:]); m != "" {
			i += len(m)
			if i >= len(input) {
				break
			}
		}

		if m := prefix(chunkString, input[i:]); m != "" {
			i += len(m)
			continue
		}

		c := input[i]
		if !inParam && c == '/' && i+1 < len(input) && (input[i+1] == '/' || input[i+1] == '*') {
			if m := prefix(chunkComment, input[i:]); m != "" {
				i += len(m)
				continue
			}
		}

		switch {
		case inParam && (c == '{' || c == '}' || c == '(' || c == ')'):
			inParam = false
		case c == '{':
			level++
		case c == '}':
			level--
			closeChunk(i + 1)
		case c == '(':
			inParam = true
		}
		i++
	}
	closeChunk(len(input))

	if level != 0 {
		index := len(input) - 1
		if index < 0 {
			index = 0
		}
		msg := "missing opening `{`"
		if level > 0 {
			msg = "missing closing `}`"
		}
		return nil, &UnbalancedError{Index: index, Message: msg}
	}
	return chunks, nil
}

// prefix returns the text p matches at the start of s, or "".
func prefix(p *Pattern, s string) string {
	groups, err := p.FindPrefix(s)
	if err != nil || groups == nil {
		return ""
	}
	return groups[0]
}
