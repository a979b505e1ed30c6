package main

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/leapmcp/leap-mcp/internal/builtin"
	"github.com/leapmcp/leap-mcp/server"
)

func main() {
	// Diagnostics go to stderr; stdout carries only protocol lines.
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          builtin.ServerName,
	})

	logger.Info("starting server", "version", builtin.ServerVersion)

	mcpServer := builtin.NewServer(logger)

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
