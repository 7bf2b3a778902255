package serve

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_ParseUnmarshal(t *testing.T) {
	input := `{"type":"parse","payload":{"content":".a { b: c; }","filename":"a.less"}}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(input), &req))
	assert.Equal(t, "parse", req.Type)

	var payload ParsePayload
	require.NoError(t, json.Unmarshal(req.Payload, &payload))
	assert.Equal(t, ".a { b: c; }", payload.Content)
	assert.Equal(t, "a.less", payload.Filename)
}

func TestRequest_ParseBatchUnmarshal(t *testing.T) {
	input := `{"type":"parse_batch","payload":{"items":[{"filename":"a.less","content":"@a: 1;"}]}}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(input), &req))

	var payload ParseBatchPayload
	require.NoError(t, json.Unmarshal(req.Payload, &payload))
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "a.less", payload.Items[0].Filename)
}

func TestResponse_Marshal(t *testing.T) {
	data, err := json.Marshal(Response{Success: true, Type: "ready"})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"success":true`)
	assert.Contains(t, string(data), `"type":"ready"`)
	assert.NotContains(t, string(data), `"error"`)
}
