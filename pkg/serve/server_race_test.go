package serve

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServer_ParseBatch_BeforeEOF checks that a parse_batch response is sent
// even when EOF arrives before the main loop picks up the pending request.
func TestServer_ParseBatch_BeforeEOF(t *testing.T) {
	core := newCore(t)

	for i := range 10 {
		request := `{"type":"parse_batch","payload":{"items":[{"filename":"a.less","content":".a { }"},{"filename":"b.less","content":"@x: 1;"}]}}` + "\n"
		in := strings.NewReader(request)
		out := &strings.Builder{}

		srv := NewServer(core, in, out)
		require.NoError(t, srv.Run(context.Background()))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2, "iteration %d: expected ready + parse_batch response, got %d lines", i, len(lines))

		var resp Response
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &resp), "iteration %d", i)
		assert.True(t, resp.Success, "iteration %d: expected success", i)
		assert.Equal(t, "parse_batch", resp.Type, "iteration %d", i)
	}
}
