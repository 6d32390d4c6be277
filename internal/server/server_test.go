package server

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrguard/internal/config"
	"ocrguard/internal/guard"
)

func TestNew(t *testing.T) {
	s, err := New(config.Default(), Options{
		Engine:    &fakeEngine{},
		Inspector: guard.NopInspector{},
	})
	require.NoError(t, err)
	require.NotNil(t, s.cache)
	require.NotNil(t, s.accurate)
	require.NotNil(t, s.fast)
	require.NotNil(t, s.batch)
}

func TestNewRejectsBrokenConfig(t *testing.T) {
	cfg := config.Default()
	cfg.OCR.AccurateTimeout = 0
	_, err := New(cfg, Options{Engine: &fakeEngine{}})
	require.Error(t, err)
}

func TestMCPRequestUnmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			require.NoError(t, json.Unmarshal([]byte(tt.json), &req))
			assert.Equal(t, tt.wantID, req.ID)
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, "2.0", req.JSONRPC)
		})
	}
}

func TestHandleInitialize(t *testing.T) {
	s := newTestServer(t, &fakeEngine{})

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2024-11-05", result["protocolVersion"])

	info, ok := result["serverInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ocrguard", info["name"])
}

func TestHandleInitializedNotification(t *testing.T) {
	s := newTestServer(t, &fakeEngine{})
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"})
	assert.Nil(t, resp, "notifications expect no response")
}

func TestHandlePing(t *testing.T) {
	s := newTestServer(t, &fakeEngine{})
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 7, Method: "ping"})
	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
}

func TestHandleUnknownMethod(t *testing.T) {
	s := newTestServer(t, &fakeEngine{})
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 7, Method: "resources/list"})
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
}

func TestToolsListContainsExtractionTools(t *testing.T) {
	s := newTestServer(t, &fakeEngine{})

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	tools, ok := result["tools"].([]Tool)
	require.True(t, ok)

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "text_extract")
	assert.Contains(t, names, "text_extract_fast")
	assert.Contains(t, names, "text_extract_batch")
	assert.Contains(t, names, "image_info")
	assert.Contains(t, names, "preprocess_preview")
	assert.Contains(t, names, "ocr_status")
}

func TestServeRoundtrip(t *testing.T) {
	s := newTestServer(t, &fakeEngine{})

	in := strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n" +
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n")
	var out bytes.Buffer
	require.NoError(t, s.serve(in, &out))

	decoder := json.NewDecoder(&out)
	for want := 1; want <= 2; want++ {
		var resp MCPResponse
		require.NoError(t, decoder.Decode(&resp))
		assert.EqualValues(t, want, resp.ID)
		assert.Nil(t, resp.Error)
	}
}

func TestServeSkipsMalformedLines(t *testing.T) {
	s := newTestServer(t, &fakeEngine{})

	in := strings.NewReader("this is not json\n" +
		`{"jsonrpc":"2.0","id":5,"method":"ping"}` + "\n")
	var out bytes.Buffer
	require.NoError(t, s.serve(in, &out))

	var resp MCPResponse
	require.NoError(t, json.NewDecoder(&out).Decode(&resp))
	assert.EqualValues(t, 5, resp.ID)
}

func TestToolDefinitionsHaveSchemas(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		assert.NotEmpty(t, tool.Name)
		assert.NotEmpty(t, tool.Description)
		assert.Equal(t, "object", tool.InputSchema["type"], "tool %s", tool.Name)
	}
}
