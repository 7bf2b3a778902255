package matcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "crlf", input: ".a {\r\n  b: c;\r\n}", want: ".a {\n  b: c;\n}"},
		{name: "bom", input: "\uFEFF.a{}", want: ".a{}"},
		{name: "only one bom", input: "\uFEFF\uFEFF", want: "\uFEFF"},
		{name: "lone cr kept", input: "a\rb", want: "a\rb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestChunkContent_SplitsAfterClosingBrace(t *testing.T) {
	input := ".a { color: red; }\n.b { .c { x: y; } }"

	chunks, err := ChunkContent(input)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	assert.Equal(t, ".a { color: red; }", chunks[0].Content)
	assert.Equal(t, "\n.b { .c { x: y; }", chunks[1].Content)
	assert.Equal(t, " }", chunks[2].Content)
	assert.Equal(t, "", chunks[3].Content)

	for k, chunk := range chunks {
		assert.Equal(t, k, chunk.Index)
		assert.Equal(t, input[chunk.StartOffset:chunk.EndOffset], chunk.Content)
	}
}

func TestChunkContent_PartitionsInput(t *testing.T) {
	input := `@import "a.less";
.m(@x) when (@x > 1) { width: @x; }
/* } */ // }
.s { content: "}"; b: '{'; js: ` + "`{`" + `; }
@var: ~"escaped";`

	chunks, err := ChunkContent(input)
	require.NoError(t, err)

	var rebuilt strings.Builder
	for k, chunk := range chunks {
		if k > 0 {
			assert.Equal(t, chunks[k-1].EndOffset, chunk.StartOffset)
		}
		rebuilt.WriteString(chunk.Content)
	}
	assert.Equal(t, input, rebuilt.String())
	assert.Len(t, chunks, 3)
}

func TestChunkContent_Unbalanced(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{name: "missing close", input: ".a { color: red;", message: "missing closing `}`"},
		{name: "missing open", input: ".a { color: red; } }", message: "missing opening `{`"},
		{name: "nested missing close", input: ".a { .b { }", message: "missing closing `}`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ChunkContent(tt.input)
			require.Error(t, err)

			var unbalanced *UnbalancedError
			require.ErrorAs(t, err, &unbalanced)
			assert.Equal(t, tt.message, unbalanced.Message)
			assert.Equal(t, len(tt.input)-1, unbalanced.Index)
		})
	}
}

func TestChunkContent_BracesInsideStringsAndComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "double quoted", input: `.a { content: "{"; }`},
		{name: "single quoted", input: `.a { content: '}}'; }`},
		{name: "block comment", input: ".a { /* { */ }"},
		{name: "line comment", input: ".a { // {\n}"},
		{name: "interpolation", input: ".@{name} { a: b; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ChunkContent(tt.input)
			assert.NoError(t, err)
		})
	}
}

func TestChunkContent_ParenthesisClosesOnAnyBracket(t *testing.T) {
	// Inside a parenthesised group any bracket ends the group, so the
	// brace after "(" is not counted.
	chunks, err := ChunkContent(".a { b: f({); }")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, ".a { b: f({); }", chunks[0].Content)

	// A comment marker inside parentheses is ordinary text.
	chunks, err = ChunkContent(".a { b: url(//x.com/y); }")
	require.NoError(t, err)
	assert.Equal(t, ".a { b: url(//x.com/y); }", chunks[0].Content)
}

func TestChunkContent_Empty(t *testing.T) {
	chunks, err := ChunkContent("")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].EndOffset)
}
