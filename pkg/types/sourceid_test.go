package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSourceID(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{
			name:     "empty content",
			content:  []byte(""),
			expected: "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391",
		},
		{
			name:     "hello world",
			content:  []byte("hello world"),
			expected: "95d09f2b10159347eece71399a7e2e907ea3df4f",
		},
		{
			name:     "content with trailing newline",
			content:  []byte("test content\n"),
			expected: "d670460b4b4aece5915caf5c68d12f560a9fe3e4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ComputeSourceID(tt.content)
			assert.Equal(t, tt.expected, id.Hex())
			assert.Equal(t, tt.expected, id.String())
			assert.False(t, id.IsZero())
		})
	}
}

func TestParseSourceID(t *testing.T) {
	id := ComputeSourceID([]byte(".a { color: red; }"))

	parsed, err := ParseSourceID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseSourceID("abc")
	assert.Error(t, err)

	_, err = ParseSourceID(strings.Repeat("z", 40))
	assert.Error(t, err)
}

func TestSourceID_JSON(t *testing.T) {
	id := ComputeSourceID([]byte("@a: 1;"))

	data, err := json.Marshal(struct {
		ID SourceID `json:"id"`
	}{id})
	require.NoError(t, err)
	assert.Equal(t, `{"id":"`+id.Hex()+`"}`, string(data))

	var decoded struct {
		ID SourceID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded.ID)
}

func TestSourceID_SQL(t *testing.T) {
	id := ComputeSourceID([]byte("x"))

	v, err := id.Value()
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), v)

	var scanned SourceID
	require.NoError(t, scanned.Scan(id.Hex()))
	assert.Equal(t, id, scanned)

	require.NoError(t, scanned.Scan([]byte(id.Hex())))
	assert.Equal(t, id, scanned)

	assert.Error(t, scanned.Scan(nil))
	assert.Error(t, scanned.Scan(42))
}
