// Package builtin holds the fixed, compiled-in tool, resource, and prompt
// set served by leap-mcp. The tables are constructed once at startup and
// never mutated.
package builtin

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/leapmcp/leap-mcp/mcp"
	"github.com/leapmcp/leap-mcp/server"
)

const (
	// ServerName and ServerVersion identify this implementation in the
	// initialize announcement.
	ServerName    = "leap-mcp"
	ServerVersion = "0.1.0"
)

const (
	exampleFileURI  = "file:///example.txt"
	exampleFileText = "This is an example text file content.\nIt contains some sample text for demonstration purposes."

	helloPromptText = "Hello from leap-mcp prompts!"
)

var Tools = []mcp.Tool{
	mcp.NewTool("echo",
		mcp.WithDescription("Echoes back the input message"),
		mcp.WithString("message",
			mcp.Description("The message to echo"),
			mcp.Required(),
		),
	),
	mcp.NewTool("add",
		mcp.WithDescription("Adds two numbers together"),
		mcp.WithNumber("a",
			mcp.Description("First number"),
			mcp.Required(),
		),
		mcp.WithNumber("b",
			mcp.Description("Second number"),
			mcp.Required(),
		),
	),
}

var Handlers = map[string]server.ToolHandlerFunc{
	"echo": HandleEcho,
	"add":  HandleAdd,
}

var Resources = []mcp.Resource{
	mcp.NewResource(exampleFileURI, "Example File", "An example text file", "text/plain"),
}

var Prompts = []mcp.Prompt{
	mcp.NewPrompt("hello",
		mcp.WithPromptDescription("Returns a friendly greeting"),
	),
}

// NewServer assembles the leap-mcp server instance with the full built-in
// set registered and all three capability areas announced.
func NewServer(logger *log.Logger) *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithLogger(logger),
	)

	for _, tool := range Tools {
		s.AddTool(tool, Handlers[tool.Name])
	}
	for _, resource := range Resources {
		s.AddResource(resource, HandleExampleFile)
	}
	for _, prompt := range Prompts {
		s.AddPrompt(prompt, HandleHello)
	}

	return s
}

// HandleEcho returns the message argument prefixed with "Echo: ", verbatim.
func HandleEcho(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	message, ok := arguments["message"].(string)
	if !ok {
		return nil, errors.New("Missing 'message' argument")
	}
	return textResult("Echo: " + message), nil
}

// HandleAdd adds two numbers and renders the equation with Go's default
// float formatting, so integer-valued operands print without a fractional
// part: 2 + 3 = 5, not 5.0.
func HandleAdd(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	a, ok := arguments["a"].(float64)
	if !ok {
		return nil, errors.New("Missing 'a' argument")
	}
	b, ok := arguments["b"].(float64)
	if !ok {
		return nil, errors.New("Missing 'b' argument")
	}
	return textResult(fmt.Sprintf("%v + %v = %v", a, b, a+b)), nil
}

// HandleExampleFile serves the canned contents of file:///example.txt.
func HandleExampleFile(ctx context.Context) (string, error) {
	return exampleFileText, nil
}

// HandleHello serves the canned greeting prompt as a single user message.
func HandleHello(ctx context.Context, arguments map[string]interface{}) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Messages: []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(helloPromptText)),
		},
	}, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
		IsError: false,
	}
}
