// Package server implements the request dispatcher and the stdio transport
// loop. An MCPServer routes parsed JSON-RPC requests to a fixed registry of
// method handlers; StdioServer frames requests and responses as one JSON
// object per line.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/leapmcp/leap-mcp/mcp"
)

// ToolHandlerFunc executes a tool against its decoded argument map.
type ToolHandlerFunc func(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error)

// ResourceHandlerFunc produces the textual contents of a resource.
type ResourceHandlerFunc func(ctx context.Context) (string, error)

// PromptHandlerFunc produces the messages of a prompt. Arguments are passed
// through from the request but the built-in prompts ignore them.
type PromptHandlerFunc func(ctx context.Context, arguments map[string]interface{}) (*mcp.GetPromptResult, error)

// NotificationSender delivers a one-way notification to the connected
// client, using the same framing as responses. The active transport
// installs one before reading requests.
type NotificationSender func(notification mcp.JSONRPCNotification) error

// methodHandler is the single invoke operation shared by every protocol
// method. A nil result with a nil error means the method produces no
// response (notification semantics).
type methodHandler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// MCPServer dispatches requests by method name. All registries are
// populated at construction time and read-only afterwards, so request
// handling needs no locking.
type MCPServer struct {
	name    string
	version string

	methods map[string]methodHandler

	tools        []mcp.Tool
	toolHandlers map[string]ToolHandlerFunc

	resources        []mcp.Resource
	resourceHandlers map[string]ResourceHandlerFunc

	prompts        []mcp.Prompt
	promptHandlers map[string]PromptHandlerFunc

	capabilities     serverCapabilities
	sendNotification NotificationSender
	logger           *log.Logger
}

type serverCapabilities struct {
	tools     *toolCapabilities
	resources *resourceCapabilities
	prompts   *promptCapabilities
}

type toolCapabilities struct {
	listChanged bool
}

type resourceCapabilities struct {
	listChanged bool
}

type promptCapabilities struct {
	listChanged bool
}

// ServerOption configures an MCPServer at construction time.
type ServerOption func(*MCPServer)

// WithToolCapabilities enables the tools capability in the initialize
// announcement.
func WithToolCapabilities(listChanged bool) ServerOption {
	return func(s *MCPServer) {
		s.capabilities.tools = &toolCapabilities{
			listChanged: listChanged,
		}
	}
}

// WithResourceCapabilities enables the resources capability in the
// initialize announcement.
func WithResourceCapabilities(listChanged bool) ServerOption {
	return func(s *MCPServer) {
		s.capabilities.resources = &resourceCapabilities{
			listChanged: listChanged,
		}
	}
}

// WithPromptCapabilities enables the prompts capability in the initialize
// announcement.
func WithPromptCapabilities(listChanged bool) ServerOption {
	return func(s *MCPServer) {
		s.capabilities.prompts = &promptCapabilities{
			listChanged: listChanged,
		}
	}
}

// WithLogger sets the diagnostic logger. Diagnostics never share the
// protocol output stream; the default logger discards everything.
func WithLogger(logger *log.Logger) ServerOption {
	return func(s *MCPServer) {
		s.logger = logger
	}
}

// NewMCPServer creates a server with the fixed method registry and empty
// descriptor registries.
func NewMCPServer(name, version string, opts ...ServerOption) *MCPServer {
	s := &MCPServer{
		name:             name,
		version:          version,
		toolHandlers:     make(map[string]ToolHandlerFunc),
		resourceHandlers: make(map[string]ResourceHandlerFunc),
		promptHandlers:   make(map[string]PromptHandlerFunc),
		logger:           log.New(io.Discard),
	}

	s.methods = map[string]methodHandler{
		"initialize":     s.handleInitialize,
		"initialized":    s.handleInitialized,
		"tools/list":     s.handleListTools,
		"tools/call":     s.handleToolCall,
		"resources/list": s.handleListResources,
		"resources/read": s.handleReadResource,
		"prompts/list":   s.handleListPrompts,
		"prompts/get":    s.handleGetPrompt,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AddTool registers a tool descriptor and its handler. Registration order
// is the order tools/list reports.
func (s *MCPServer) AddTool(tool mcp.Tool, handler ToolHandlerFunc) {
	if s.capabilities.tools == nil {
		panic("Tool capabilities not enabled")
	}
	if _, exists := s.toolHandlers[tool.Name]; !exists {
		s.tools = append(s.tools, tool)
	}
	s.toolHandlers[tool.Name] = handler
}

// AddResource registers a resource descriptor and its read handler.
func (s *MCPServer) AddResource(resource mcp.Resource, handler ResourceHandlerFunc) {
	if s.capabilities.resources == nil {
		panic("Resource capabilities not enabled")
	}
	if _, exists := s.resourceHandlers[resource.URI]; !exists {
		s.resources = append(s.resources, resource)
	}
	s.resourceHandlers[resource.URI] = handler
}

// AddPrompt registers a prompt descriptor and its handler.
func (s *MCPServer) AddPrompt(prompt mcp.Prompt, handler PromptHandlerFunc) {
	if s.capabilities.prompts == nil {
		panic("Prompt capabilities not enabled")
	}
	if _, exists := s.promptHandlers[prompt.Name]; !exists {
		s.prompts = append(s.prompts, prompt)
	}
	s.promptHandlers[prompt.Name] = handler
}

// SetNotificationSender installs the transport's notification writer. The
// initialized handler fails with ErrNotificationNotInitialized if no sender
// has been installed.
func (s *MCPServer) SetNotificationSender(send NotificationSender) {
	s.sendNotification = send
}

// HandleRequest routes a parsed request to its method handler and wraps
// the result in a response envelope. It returns (nil, nil) when the
// request produces no response: requests without an id are notifications,
// and the initialized method never replies even when an id is present.
// Handler failures are returned as errors for the transport to surface as
// internal-error responses.
func (s *MCPServer) HandleRequest(ctx context.Context, request mcp.JSONRPCRequest) (*mcp.JSONRPCResponse, error) {
	if request.ID == nil && request.Method != "initialized" {
		s.logger.Debug("dropping notification", "method", request.Method)
		return nil, nil
	}

	handler, ok := s.methods[request.Method]
	if !ok {
		return nil, fmt.Errorf("Unknown method: %s", request.Method)
	}

	result, err := handler(ctx, request.Params)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	response := mcp.NewJSONRPCResponse(request.ID, result)
	return &response, nil
}

func (s *MCPServer) handleInitialize(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var initParams mcp.InitializeParams
	if err := unmarshalParams(params, &initParams); err != nil {
		return nil, err
	}
	if initParams.ProtocolVersion == "" {
		return nil, errors.New("Invalid initialize params: missing protocolVersion")
	}

	s.logger.Info("initializing server", "clientProtocolVersion", initParams.ProtocolVersion)

	capabilities := mcp.ServerCapabilities{}
	if s.capabilities.tools != nil {
		capabilities.Tools = &mcp.ToolCapabilities{
			ListChanged: s.capabilities.tools.listChanged,
		}
	}
	if s.capabilities.resources != nil {
		capabilities.Resources = &mcp.ResourceCapabilities{
			ListChanged: s.capabilities.resources.listChanged,
		}
	}
	if s.capabilities.prompts != nil {
		capabilities.Prompts = &mcp.PromptCapabilities{
			ListChanged: s.capabilities.prompts.listChanged,
		}
	}

	return mcp.InitializeResult{
		ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
		Capabilities:    capabilities,
		ServerInfo: mcp.Implementation{
			Name:    s.name,
			Version: s.version,
		},
	}, nil
}

// handleInitialized emits the three listChanged notifications and produces
// no response of its own.
func (s *MCPServer) handleInitialized(ctx context.Context, params json.RawMessage) (interface{}, error) {
	s.logger.Info("received initialized notification")

	if s.sendNotification == nil {
		return nil, ErrNotificationNotInitialized
	}

	for _, method := range []string{
		"tools/listChanged",
		"resources/listChanged",
		"prompts/listChanged",
	} {
		if err := s.sendNotification(mcp.NewJSONRPCNotification(method, nil)); err != nil {
			return nil, err
		}
	}

	return nil, nil
}

func (s *MCPServer) handleListTools(ctx context.Context, params json.RawMessage) (interface{}, error) {
	s.logger.Info("listing tools")
	return mcp.ListToolsResult{
		Tools: s.tools,
	}, nil
}

func (s *MCPServer) handleToolCall(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if missingParams(params) {
		return nil, ErrMissingParams
	}
	var callParams mcp.CallToolParams
	if err := unmarshalParams(params, &callParams); err != nil {
		return nil, err
	}
	if callParams.Name == "" {
		return nil, errors.New(`Invalid params: missing field "name"`)
	}

	handler, ok := s.toolHandlers[callParams.Name]
	if !ok {
		return nil, fmt.Errorf("Unknown tool: %s", callParams.Name)
	}

	s.logger.Info("calling tool", "name", callParams.Name)
	result, err := handler(ctx, callParams.Arguments)
	if err != nil {
		return nil, err
	}
	// Returning the pointer directly would wrap a nil *CallToolResult in a
	// non-nil interface and serialize a null result.
	if result == nil {
		return nil, fmt.Errorf("Tool %s returned no result", callParams.Name)
	}
	return result, nil
}

func (s *MCPServer) handleListResources(ctx context.Context, params json.RawMessage) (interface{}, error) {
	s.logger.Info("listing resources")
	return mcp.ListResourcesResult{
		Resources: s.resources,
	}, nil
}

func (s *MCPServer) handleReadResource(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if missingParams(params) {
		return nil, ErrMissingParams
	}
	var readParams mcp.ReadResourceParams
	if err := unmarshalParams(params, &readParams); err != nil {
		return nil, err
	}
	if readParams.URI == "" {
		return nil, errors.New(`Invalid params: missing field "uri"`)
	}

	handler, ok := s.resourceHandlers[readParams.URI]
	if !ok {
		return nil, fmt.Errorf("Resource not found: %s", readParams.URI)
	}

	s.logger.Info("reading resource", "uri", readParams.URI)
	text, err := handler(ctx)
	if err != nil {
		return nil, err
	}

	// The MIME type of read responses is fixed; the descriptor's own
	// declared type is not consulted.
	return mcp.ReadResourceResult{
		Contents: []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      readParams.URI,
				MIMEType: "text/plain",
				Text:     text,
			},
		},
	}, nil
}

func (s *MCPServer) handleListPrompts(ctx context.Context, params json.RawMessage) (interface{}, error) {
	s.logger.Info("listing prompts")
	return mcp.ListPromptsResult{
		Prompts: s.prompts,
	}, nil
}

func (s *MCPServer) handleGetPrompt(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if missingParams(params) {
		return nil, ErrMissingParams
	}
	var getParams mcp.GetPromptParams
	if err := unmarshalParams(params, &getParams); err != nil {
		return nil, err
	}
	if getParams.Name == "" {
		return nil, errors.New(`Invalid params: missing field "name"`)
	}

	handler, ok := s.promptHandlers[getParams.Name]
	if !ok {
		return nil, fmt.Errorf("Unknown prompt: %s", getParams.Name)
	}

	s.logger.Info("getting prompt", "name", getParams.Name)
	result, err := handler(ctx, getParams.Arguments)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("Prompt %s returned no result", getParams.Name)
	}
	return result, nil
}

// missingParams reports whether a params payload is absent. An explicit
// JSON null counts as absent; an empty object does not.
func missingParams(params json.RawMessage) bool {
	return len(params) == 0 || string(params) == "null"
}

// unmarshalParams decodes an optional params payload into dst, treating an
// absent payload as an empty object.
func unmarshalParams(params json.RawMessage, dst interface{}) error {
	if missingParams(params) {
		params = json.RawMessage("{}")
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return fmt.Errorf("Invalid params: %w", err)
	}
	return nil
}
