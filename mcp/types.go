// Package mcp defines the wire-level types for the line-delimited JSON-RPC
// protocol spoken by the server: request/response/notification envelopes,
// the reserved error codes, and the tool/resource/prompt descriptor shapes.
package mcp

import "encoding/json"

const (
	// JSONRPC_VERSION is the protocol tag carried by every envelope.
	JSONRPC_VERSION = "2.0"

	// LATEST_PROTOCOL_VERSION is the protocol revision announced by
	// initialize. The server does not negotiate: it always declares this
	// version regardless of what the client sent.
	LATEST_PROTOCOL_VERSION = "2024-11-05"
)

// Standard JSON-RPC error codes (reserved range).
const (
	PARSE_ERROR      = -32700
	INVALID_REQUEST  = -32600
	METHOD_NOT_FOUND = -32601
	INVALID_PARAMS   = -32602
	INTERNAL_ERROR   = -32603
)

// Sentinel request ids used when an error response must be produced for a
// request that carried no id of its own.
const (
	ParseErrorID = "parse_error"
	ErrorID      = "error"
)

// JSONRPCMessage is any envelope that can be written to the wire as a
// single line: a JSONRPCResponse or a JSONRPCNotification.
type JSONRPCMessage interface{}

// JSONRPCRequest is the inbound envelope. An absent id marks the request as
// a notification: no response is expected. A present id is echoed verbatim
// in the response, whatever JSON scalar it holds.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse is the outbound reply envelope. Exactly one of Result and
// Error is set; the id is always serialized, falling back to null only when
// the caller supplied none.
type JSONRPCResponse struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      interface{}    `json:"id"`
	Result  interface{}    `json:"result,omitempty"`
	Error   *JSONRPCErrMsg `json:"error,omitempty"`
}

// JSONRPCErrMsg is the error descriptor inside a failed response.
type JSONRPCErrMsg struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSONRPCNotification is a server-to-client one-way message. It carries no
// id and expects no reply; Params always serializes, even when empty.
type JSONRPCNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

// Implementation identifies an MCP implementation by name and version.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerCapabilities is the capability announcement returned by initialize.
type ServerCapabilities struct {
	Tools     *ToolCapabilities     `json:"tools,omitempty"`
	Resources *ResourceCapabilities `json:"resources,omitempty"`
	Prompts   *PromptCapabilities   `json:"prompts,omitempty"`
}

type ToolCapabilities struct {
	ListChanged bool `json:"listChanged"`
}

type ResourceCapabilities struct {
	ListChanged bool `json:"listChanged"`
}

type PromptCapabilities struct {
	ListChanged bool `json:"listChanged"`
}

// Tool describes an invocable tool: its unique name, a human-readable
// description, and a JSON-Schema-shaped input schema. Immutable after
// server construction.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema ToolInputSchema `json:"inputSchema"`
}

// ToolInputSchema is the object schema validating a tool's arguments.
type ToolInputSchema struct {
	Type       string                 `json:"type"` // Always "object"
	Properties map[string]interface{} `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`
}

// Resource describes a readable resource keyed by URI.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
}

// Prompt describes a retrievable prompt keyed by name. The prompt content
// itself is produced by a separate lookup, not stored on the descriptor.
type Prompt struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Content is a single content block inside a tool result or prompt
// message. Currently always a TextContent.
type Content interface{}

// TextContent is a plain-text content block.
type TextContent struct {
	Type string `json:"type"` // Always "text"
	Text string `json:"text"`
}

// ResourceContents is one entry of a resources/read result. Currently
// always a TextResourceContents.
type ResourceContents interface{}

// TextResourceContents is the textual contents of a resource.
type TextResourceContents struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// PromptMessage is one message of a prompts/get result.
type PromptMessage struct {
	Role    Role      `json:"role"`
	Content []Content `json:"content"`
}

// Role identifies the speaker of a prompt message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// InitializeParams are the expected parameters of an initialize request.
type InitializeParams struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ClientInfo      *Implementation        `json:"clientInfo,omitempty"`
}

// CallToolParams are the expected parameters of a tools/call request.
type CallToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ReadResourceParams are the expected parameters of a resources/read request.
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// GetPromptParams are the expected parameters of a prompts/get request.
// Arguments are accepted for forward compatibility but never inspected.
type GetPromptParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// InitializeResult is the fixed announcement returned by initialize.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
}

// ListToolsResult is the result of tools/list.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolResult is the result of a successful tools/call. IsError is
// serialized unconditionally and is always false: tool failures surface as
// top-level JSON-RPC errors, never as in-band error content.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError"`
}

// ListResourcesResult is the result of resources/list.
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

// ReadResourceResult is the result of resources/read.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// ListPromptsResult is the result of prompts/list.
type ListPromptsResult struct {
	Prompts []Prompt `json:"prompts"`
}

// GetPromptResult is the result of prompts/get.
type GetPromptResult struct {
	Messages []PromptMessage `json:"messages"`
}
