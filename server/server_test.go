package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapmcp/leap-mcp/mcp"
)

func newTestServer() *MCPServer {
	s := NewMCPServer("test-server", "1.0.0",
		WithToolCapabilities(true),
		WithResourceCapabilities(true),
		WithPromptCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("greet", mcp.WithString("name", mcp.Required())),
		func(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
			name, _ := arguments["name"].(string)
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent("hello " + name)},
			}, nil
		},
	)
	s.AddResource(
		mcp.NewResource("test://doc", "Doc", "A test document", "text/plain"),
		func(ctx context.Context) (string, error) {
			return "doc body", nil
		},
	)
	s.AddPrompt(
		mcp.NewPrompt("welcome"),
		func(ctx context.Context, arguments map[string]interface{}) (*mcp.GetPromptResult, error) {
			return &mcp.GetPromptResult{
				Messages: []mcp.PromptMessage{
					mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent("welcome!")),
				},
			}, nil
		},
	)

	return s
}

func request(id interface{}, method string, params string) mcp.JSONRPCRequest {
	req := mcp.JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      id,
		Method:  method,
	}
	if params != "" {
		req.Params = json.RawMessage(params)
	}
	return req
}

func TestMCPServer_NewMCPServer(t *testing.T) {
	server := NewMCPServer("test-server", "1.0.0")
	require.NotNil(t, server)
	assert.Equal(t, "test-server", server.name)
	assert.Equal(t, "1.0.0", server.version)
}

func TestMCPServer_Initialize(t *testing.T) {
	server := newTestServer()

	response, err := server.HandleRequest(
		context.Background(),
		request(1, "initialize", `{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test-client","version":"0.0.1"}}`),
	)
	require.NoError(t, err)
	require.NotNil(t, response)

	result, ok := response.Result.(mcp.InitializeResult)
	require.True(t, ok)

	assert.Equal(t, mcp.LATEST_PROTOCOL_VERSION, result.ProtocolVersion)
	assert.Equal(t, "test-server", result.ServerInfo.Name)
	assert.Equal(t, "1.0.0", result.ServerInfo.Version)

	require.NotNil(t, result.Capabilities.Tools)
	assert.True(t, result.Capabilities.Tools.ListChanged)
	require.NotNil(t, result.Capabilities.Resources)
	assert.True(t, result.Capabilities.Resources.ListChanged)
	require.NotNil(t, result.Capabilities.Prompts)
	assert.True(t, result.Capabilities.Prompts.ListChanged)
}

func TestMCPServer_InitializeIgnoresClientVersion(t *testing.T) {
	server := newTestServer()

	// No negotiation: whatever version the client declares, the server
	// answers with its own.
	response, err := server.HandleRequest(
		context.Background(),
		request(1, "initialize", `{"protocolVersion":"1999-01-01","capabilities":{}}`),
	)
	require.NoError(t, err)
	require.NotNil(t, response)

	result, ok := response.Result.(mcp.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, mcp.LATEST_PROTOCOL_VERSION, result.ProtocolVersion)
}

func TestMCPServer_InitializeMissingParams(t *testing.T) {
	server := newTestServer()

	tests := []struct {
		name   string
		params string
	}{
		{name: "no params at all", params: ""},
		{name: "empty params object", params: `{}`},
		{name: "wrong params type", params: `"not an object"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := server.HandleRequest(
				context.Background(),
				request(1, "initialize", tt.params),
			)
			assert.Error(t, err)
			assert.Nil(t, response)
		})
	}
}

func TestMCPServer_UnknownMethod(t *testing.T) {
	server := newTestServer()

	response, err := server.HandleRequest(
		context.Background(),
		request(1, "bogus/method", ""),
	)
	assert.Nil(t, response)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown method: bogus/method")
}

func TestMCPServer_IDEchoedVerbatim(t *testing.T) {
	server := newTestServer()

	tests := []struct {
		name string
		id   interface{}
	}{
		{name: "numeric id", id: float64(42)},
		{name: "string id", id: "req-9"},
		{name: "zero id", id: float64(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := server.HandleRequest(
				context.Background(),
				request(tt.id, "tools/list", ""),
			)
			require.NoError(t, err)
			require.NotNil(t, response)
			assert.Equal(t, tt.id, response.ID)
		})
	}
}

func TestMCPServer_NotificationsProduceNoResponse(t *testing.T) {
	server := newTestServer()

	for _, method := range []string{"tools/list", "resources/list", "prompts/list", "no/such/method"} {
		t.Run(method, func(t *testing.T) {
			response, err := server.HandleRequest(
				context.Background(),
				request(nil, method, ""),
			)
			assert.NoError(t, err)
			assert.Nil(t, response)
		})
	}
}

func TestMCPServer_InitializedEmitsListChanged(t *testing.T) {
	server := newTestServer()

	var sent []mcp.JSONRPCNotification
	server.SetNotificationSender(func(n mcp.JSONRPCNotification) error {
		sent = append(sent, n)
		return nil
	})

	response, err := server.HandleRequest(
		context.Background(),
		request(nil, "initialized", ""),
	)
	require.NoError(t, err)
	assert.Nil(t, response)

	require.Len(t, sent, 3)
	assert.Equal(t, "tools/listChanged", sent[0].Method)
	assert.Equal(t, "resources/listChanged", sent[1].Method)
	assert.Equal(t, "prompts/listChanged", sent[2].Method)
	for _, n := range sent {
		assert.Equal(t, mcp.JSONRPC_VERSION, n.JSONRPC)
		assert.Equal(t, struct{}{}, n.Params)
	}
}

func TestMCPServer_InitializedWithIDStillSilent(t *testing.T) {
	server := newTestServer()

	var sent []mcp.JSONRPCNotification
	server.SetNotificationSender(func(n mcp.JSONRPCNotification) error {
		sent = append(sent, n)
		return nil
	})

	response, err := server.HandleRequest(
		context.Background(),
		request(5, "initialized", ""),
	)
	require.NoError(t, err)
	assert.Nil(t, response)
	assert.Len(t, sent, 3)
}

func TestMCPServer_InitializedWithoutSender(t *testing.T) {
	server := newTestServer()

	_, err := server.HandleRequest(
		context.Background(),
		request(nil, "initialized", ""),
	)
	assert.ErrorIs(t, err, ErrNotificationNotInitialized)
}

func TestMCPServer_ToolCallValidation(t *testing.T) {
	server := newTestServer()

	tests := []struct {
		name        string
		params      string
		expectedErr string
	}{
		{
			name:        "missing params",
			params:      "",
			expectedErr: "Missing params",
		},
		{
			name:        "null params",
			params:      "null",
			expectedErr: "Missing params",
		},
		{
			name:        "unknown tool",
			params:      `{"name":"nonexistent","arguments":{}}`,
			expectedErr: "Unknown tool: nonexistent",
		},
		{
			name:        "missing tool name",
			params:      `{"arguments":{}}`,
			expectedErr: `Invalid params: missing field "name"`,
		},
		{
			name:        "malformed params",
			params:      `{"name":42}`,
			expectedErr: "Invalid params",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := server.HandleRequest(
				context.Background(),
				request(1, "tools/call", tt.params),
			)
			assert.Nil(t, response)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestMCPServer_ToolCallEmptyArgumentsIsValid(t *testing.T) {
	server := newTestServer()
	server.AddTool(
		mcp.NewTool("noop"),
		func(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent("ok")}}, nil
		},
	)

	response, err := server.HandleRequest(
		context.Background(),
		request(1, "tools/call", `{"name":"noop","arguments":{}}`),
	)
	require.NoError(t, err)
	require.NotNil(t, response)
}

func TestMCPServer_ListOrderIsRegistrationOrder(t *testing.T) {
	s := NewMCPServer("test-server", "1.0.0", WithToolCapabilities(true))
	for _, name := range []string{"zeta", "alpha", "mid"} {
		s.AddTool(mcp.NewTool(name), func(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{}, nil
		})
	}

	// Repeated lists return the same static set in the same order.
	for i := 0; i < 3; i++ {
		response, err := s.HandleRequest(context.Background(), request(1, "tools/list", ""))
		require.NoError(t, err)

		result, ok := response.Result.(mcp.ListToolsResult)
		require.True(t, ok)
		require.Len(t, result.Tools, 3)
		assert.Equal(t, "zeta", result.Tools[0].Name)
		assert.Equal(t, "alpha", result.Tools[1].Name)
		assert.Equal(t, "mid", result.Tools[2].Name)
	}
}

func TestMCPServer_ReadResource(t *testing.T) {
	server := newTestServer()

	response, err := server.HandleRequest(
		context.Background(),
		request(1, "resources/read", `{"uri":"test://doc"}`),
	)
	require.NoError(t, err)

	result, ok := response.Result.(mcp.ReadResourceResult)
	require.True(t, ok)
	require.Len(t, result.Contents, 1)

	contents, ok := mcp.AsTextResourceContents(result.Contents[0])
	require.True(t, ok)
	assert.Equal(t, "test://doc", contents.URI)
	assert.Equal(t, "text/plain", contents.MIMEType)
	assert.Equal(t, "doc body", contents.Text)
}

func TestMCPServer_ReadResourceErrors(t *testing.T) {
	server := newTestServer()

	tests := []struct {
		name        string
		params      string
		expectedErr string
	}{
		{name: "missing params", params: "", expectedErr: "Missing params"},
		{name: "missing uri", params: `{}`, expectedErr: `Invalid params: missing field "uri"`},
		{name: "unknown uri", params: `{"uri":"test://missing"}`, expectedErr: "Resource not found: test://missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := server.HandleRequest(
				context.Background(),
				request(1, "resources/read", tt.params),
			)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestMCPServer_GetPrompt(t *testing.T) {
	server := newTestServer()

	// Arguments are accepted but never inspected.
	response, err := server.HandleRequest(
		context.Background(),
		request(1, "prompts/get", `{"name":"welcome","arguments":{"unused":true}}`),
	)
	require.NoError(t, err)

	result, ok := response.Result.(*mcp.GetPromptResult)
	require.True(t, ok)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, mcp.RoleUser, result.Messages[0].Role)

	_, err = server.HandleRequest(
		context.Background(),
		request(1, "prompts/get", `{"name":"nope"}`),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown prompt: nope")

	_, err = server.HandleRequest(
		context.Background(),
		request(1, "prompts/get", `{"arguments":{}}`),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Invalid params: missing field "name"`)
}

func TestMCPServer_NilHandlerResultIsAnError(t *testing.T) {
	server := newTestServer()
	server.AddTool(
		mcp.NewTool("void"),
		func(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
			return nil, nil
		},
	)
	server.AddPrompt(
		mcp.NewPrompt("void"),
		func(ctx context.Context, arguments map[string]interface{}) (*mcp.GetPromptResult, error) {
			return nil, nil
		},
	)

	// A nil concrete pointer must not leak through as a null result; the
	// caller gets an error response instead.
	response, err := server.HandleRequest(
		context.Background(),
		request(1, "tools/call", `{"name":"void","arguments":{}}`),
	)
	assert.Nil(t, response)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tool void returned no result")

	response, err = server.HandleRequest(
		context.Background(),
		request(2, "prompts/get", `{"name":"void"}`),
	)
	assert.Nil(t, response)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Prompt void returned no result")
}

func TestMCPServer_AddToolWithoutCapabilityPanics(t *testing.T) {
	s := NewMCPServer("test-server", "1.0.0")
	assert.Panics(t, func() {
		s.AddTool(mcp.NewTool("x"), nil)
	})
}
