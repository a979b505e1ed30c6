package mcp

// Helper functions for JSON-RPC envelopes

// NewJSONRPCResponse creates a successful response carrying the given
// result. The id is echoed as received.
func NewJSONRPCResponse(id interface{}, result interface{}) JSONRPCResponse {
	return JSONRPCResponse{
		JSONRPC: JSONRPC_VERSION,
		ID:      id,
		Result:  result,
	}
}

// NewJSONRPCError creates an error response with the given code and
// message. A nil id falls back to the ErrorID sentinel so the response
// always carries a correlation identifier.
func NewJSONRPCError(id interface{}, code int, message string) JSONRPCResponse {
	if id == nil {
		id = ErrorID
	}
	return JSONRPCResponse{
		JSONRPC: JSONRPC_VERSION,
		ID:      id,
		Error: &JSONRPCErrMsg{
			Code:    code,
			Message: message,
		},
	}
}

// NewJSONRPCNotification creates a one-way server notification. A nil
// params value is replaced by an empty object so the params field always
// serializes.
func NewJSONRPCNotification(method string, params interface{}) JSONRPCNotification {
	if params == nil {
		params = struct{}{}
	}
	return JSONRPCNotification{
		JSONRPC: JSONRPC_VERSION,
		Method:  method,
		Params:  params,
	}
}

// Helper functions for descriptors and content blocks

// NewResource creates a new Resource descriptor
func NewResource(uri, name, description, mimeType string) Resource {
	return Resource{
		URI:         uri,
		Name:        name,
		Description: description,
		MIMEType:    mimeType,
	}
}

// NewTextContent creates a new TextContent block
func NewTextContent(text string) TextContent {
	return TextContent{
		Type: "text",
		Text: text,
	}
}

// NewPromptMessage creates a new PromptMessage with the given role and
// content blocks
func NewPromptMessage(role Role, content ...Content) PromptMessage {
	return PromptMessage{
		Role:    role,
		Content: content,
	}
}

// AsTextContent attempts to cast the given content block to TextContent
func AsTextContent(content interface{}) (*TextContent, bool) {
	tc, ok := content.(TextContent)
	if !ok {
		return nil, false
	}
	return &tc, true
}

// AsTextResourceContents attempts to cast the given contents entry to
// TextResourceContents
func AsTextResourceContents(content interface{}) (*TextResourceContents, bool) {
	trc, ok := content.(TextResourceContents)
	if !ok {
		return nil, false
	}
	return &trc, true
}
