package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/leapmcp/leap-mcp/mcp"
)

// StdioServer wraps an MCPServer and handles newline-delimited JSON-RPC
// communication over a pair of byte streams. Exactly one line of output is
// written per request that yields a response; notifications produce none.
type StdioServer struct {
	server    *MCPServer
	errLogger *log.Logger
}

// NewStdioServer creates a new stdio transport wrapper around an MCPServer.
func NewStdioServer(server *MCPServer) *StdioServer {
	return &StdioServer{
		server:    server,
		errLogger: log.New(io.Discard), // Default to discarding diagnostics
	}
}

// SetErrorLogger configures where diagnostics are logged. The logger must
// never share the output stream, which is a strict protocol channel.
func (s *StdioServer) SetErrorLogger(logger *log.Logger) {
	s.errLogger = logger
}

type readResult struct {
	line string
	err  error
}

// Listen processes messages from stdin until end-of-stream or context
// cancellation, writing responses to stdout. A zero-length read terminates
// the loop cleanly with a nil error.
func (s *StdioServer) Listen(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	// Server-initiated notifications use the same framing and sink as
	// responses.
	s.server.SetNotificationSender(func(notification mcp.JSONRPCNotification) error {
		return s.writeMessage(notification, stdout)
	})

	sessionID := uuid.New().String()
	s.errLogger.Info("client connected", "sessionID", sessionID)

	reader := bufio.NewReader(stdin)

	for {
		// Read in a goroutine so the wait is cancellable.
		readChan := make(chan readResult, 1)
		go func() {
			line, err := reader.ReadString('\n')
			readChan <- readResult{line: line, err: err}
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-readChan:
			// A final unterminated line before EOF is still a request.
			if line := strings.TrimSpace(res.line); line != "" {
				if err := s.processMessage(ctx, line, stdout); err != nil {
					s.errLogger.Error("handling message", "sessionID", sessionID, "err", err)
					return err
				}
			}
			if res.err != nil {
				if errors.Is(res.err, io.EOF) {
					s.errLogger.Info("client disconnected", "sessionID", sessionID)
					return nil
				}
				s.errLogger.Error("reading input", "sessionID", sessionID, "err", res.err)
				return res.err
			}
		}
	}
}

// processMessage parses a single non-blank line, dispatches it, and writes
// whatever response it yields. Parse and handler failures are reported to
// the caller as error responses and never stop the loop; only write
// failures propagate.
func (s *StdioServer) processMessage(ctx context.Context, line string, writer io.Writer) error {
	var request mcp.JSONRPCRequest
	if err := json.Unmarshal([]byte(line), &request); err != nil {
		s.errLogger.Warn("failed to parse request", "err", err)
		response := mcp.NewJSONRPCError(
			mcp.ParseErrorID,
			mcp.PARSE_ERROR,
			fmt.Sprintf("Parse error: %v", err),
		)
		return s.writeMessage(response, writer)
	}

	// Valid JSON that lacks the required envelope fields is still
	// malformed input, not a dispatchable request.
	if request.JSONRPC == "" || request.Method == "" {
		field := "method"
		if request.JSONRPC == "" {
			field = "jsonrpc"
		}
		s.errLogger.Warn("failed to parse request", "err", "missing field "+field)
		response := mcp.NewJSONRPCError(
			mcp.ParseErrorID,
			mcp.PARSE_ERROR,
			fmt.Sprintf("Parse error: missing field %q", field),
		)
		return s.writeMessage(response, writer)
	}

	response, err := s.server.HandleRequest(ctx, request)
	if err != nil {
		s.errLogger.Error("error handling request", "method", request.Method, "err", err)
		// Notifications get no reply, not even an error.
		if request.ID == nil {
			return nil
		}
		errResponse := mcp.NewJSONRPCError(
			request.ID,
			mcp.INTERNAL_ERROR,
			fmt.Sprintf("Internal error: %v", err),
		)
		return s.writeMessage(errResponse, writer)
	}

	if response != nil {
		return s.writeMessage(*response, writer)
	}

	return nil
}

// writeMessage serializes a single envelope as one line. Writes go straight
// to the sink with no buffering across messages: the caller may be waiting
// synchronously on each line.
func (s *StdioServer) writeMessage(message mcp.JSONRPCMessage, writer io.Writer) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "%s\n", messageBytes); err != nil {
		return err
	}

	return nil
}

// ServeStdio is a convenience function that creates and starts a
// StdioServer on os.Stdin and os.Stdout, with diagnostics on stderr, until
// EOF or SIGINT/SIGTERM.
func ServeStdio(server *MCPServer) error {
	s := NewStdioServer(server)
	s.SetErrorLogger(log.New(os.Stderr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	return s.Listen(ctx, os.Stdin, os.Stdout)
}
