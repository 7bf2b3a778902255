package matcher

import (
	"fmt"

	"github.com/praetorian-inc/lessc/pkg/types"
)

// Failure is raised by the cursor when a required token is missing. It is
// delivered with panic and recovered at the parse entry point.
type Failure struct {
	Index   int
	Message string
	Kind    types.ErrorKind
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%sError: %s at %d", f.Kind, f.Message, f.Index)
}

// Checkpoint is a saved cursor position.
type Checkpoint struct {
	Chunk  int
	Offset int
}

// Cursor walks the chunked input. Every successful token match advances the
// cursor past the token and then past any spaces, tabs and newlines that
// follow it within the current chunk.
//
// Cursor is not safe for concurrent use.
type Cursor struct {
	input    string
	chunks   []Chunk
	i        int // absolute offset
	j        int // current chunk
	furthest int
}

// NewCursor positions a cursor at the start of input. chunks must
// partition input as returned by ChunkContent.
func NewCursor(input string, chunks []Chunk) *Cursor {
	if len(chunks) == 0 {
		chunks = []Chunk{{Content: input, EndOffset: len(input)}}
	}
	return &Cursor{input: input, chunks: chunks}
}

// Input returns the full input text.
func (c *Cursor) Input() string {
	return c.input
}

// Offset returns the absolute position.
func (c *Cursor) Offset() int {
	return c.i
}

// Furthest returns the furthest position the cursor ever reached.
func (c *Cursor) Furthest() int {
	return c.furthest
}

// AtEnd reports whether the whole input has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.i >= len(c.input)
}

// CharAt returns the byte at offset, or 0 outside the input.
func (c *Cursor) CharAt(offset int) byte {
	if offset < 0 || offset >= len(c.input) {
		return 0
	}
	return c.input[offset]
}

// Current returns the byte under the cursor.
func (c *Cursor) Current() byte {
	return c.CharAt(c.i)
}

// Peek reports whether the byte under the cursor is ch.
func (c *Cursor) Peek(ch byte) bool {
	return c.Current() == ch
}

// PeekPattern reports whether p matches at the cursor without consuming.
func (c *Cursor) PeekPattern(p *Pattern) bool {
	return c.find(p) != nil
}

// Lookahead matches p at the cursor without consuming anything.
func (c *Cursor) Lookahead(p *Pattern) []string {
	return c.find(p)
}

// Remainder returns the unconsumed text of the current chunk.
func (c *Cursor) Remainder() string {
	c.sync()
	end := c.chunks[c.j].EndOffset
	if c.i >= end {
		return ""
	}
	return c.input[c.i:end]
}

// Char consumes ch if it is under the cursor.
func (c *Cursor) Char(ch byte) bool {
	if c.Current() != ch || c.AtEnd() {
		return false
	}
	c.Skip(1)
	return true
}

// Match consumes p at the cursor. It returns nil when p does not match,
// otherwise the full match followed by the capture groups.
func (c *Cursor) Match(p *Pattern) []string {
	groups := c.find(p)
	if groups == nil {
		return nil
	}
	c.Skip(len(groups[0]))
	return groups
}

// Expect consumes p or fails. An empty msg selects "unexpected token".
func (c *Cursor) Expect(p *Pattern, msg string) []string {
	groups := c.Match(p)
	if groups == nil {
		if msg == "" {
			msg = "unexpected token"
		}
		c.Fail(msg)
	}
	return groups
}

// ExpectChar consumes ch or fails. An empty msg selects
// "expected 'ch' got 'x'".
func (c *Cursor) ExpectChar(ch byte, msg string) {
	if !c.Char(ch) {
		if msg == "" {
			got := ""
			if !c.AtEnd() {
				got = string(c.Current())
			}
			msg = fmt.Sprintf("expected '%c' got '%s'", ch, got)
		}
		c.Fail(msg)
	}
}

// Fail aborts the parse with a syntax error at the cursor.
func (c *Cursor) Fail(msg string) {
	c.FailAt(c.i, types.KindSyntax, msg)
}

// FailAt aborts the parse with an error of the given kind at index.
func (c *Cursor) FailAt(index int, kind types.ErrorKind, msg string) {
	panic(&Failure{Index: index, Message: msg, Kind: kind})
}

// Skip advances n bytes and then over trailing whitespace in the current
// chunk.
func (c *Cursor) Skip(n int) {
	c.sync()
	end := c.chunks[c.j].EndOffset
	c.i += n
	for c.i < end {
		ch := c.input[c.i]
		if ch != ' ' && ch != '\n' && ch != '\t' {
			break
		}
		c.i++
	}
	c.sync()
}

// Advance moves forward n bytes without skipping whitespace.
func (c *Cursor) Advance(n int) {
	c.i += n
	c.sync()
}

// Checkpoint records the current position. Any number of checkpoints may be
// outstanding at once.
func (c *Cursor) Checkpoint() Checkpoint {
	return Checkpoint{Chunk: c.j, Offset: c.i}
}

// Rollback returns to cp. The furthest position is left untouched.
func (c *Cursor) Rollback(cp Checkpoint) {
	c.i = cp.Offset
	c.j = cp.Chunk
}

// Attempt runs fn and rolls back to the position before it when fn reports
// false.
func (c *Cursor) Attempt(fn func() bool) bool {
	cp := c.Checkpoint()
	if fn() {
		return true
	}
	c.Rollback(cp)
	return false
}

func (c *Cursor) find(p *Pattern) []string {
	groups, err := p.FindPrefix(c.Remainder())
	if err != nil {
		c.FailAt(c.i, types.KindParse, err.Error())
	}
	return groups
}

// sync moves to the chunk containing the cursor and raises furthest.
func (c *Cursor) sync() {
	last := len(c.chunks) - 1
	for c.j < last && c.i >= c.chunks[c.j].EndOffset {
		c.j++
	}
	for c.j > 0 && c.i < c.chunks[c.j].StartOffset {
		c.j--
	}
	if c.i > c.furthest {
		c.furthest = c.i
	}
}
