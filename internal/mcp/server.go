package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/muyuanjin/modsplit/internal/engine"
	"github.com/muyuanjin/modsplit/internal/ledger"
)

const (
	// ServerName is the MCP server name
	ServerName = "modsplit"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the run ledger
	DefaultDBPath = "~/.modsplit"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp    *server.MCPServer
	ledger ledger.Ledger

	// One split at a time; overlapping calls are rejected, not queued.
	runLock engine.RunLock
}

// NewServer creates a new MCP server instance
func NewServer(dbPath string) (*Server, error) {
	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".modsplit")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbFile := filepath.Join(dbPath, "runs.db")

	led, err := ledger.NewSQLiteLedger(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:    mcpServer,
		ledger: led,
	}

	// Register tools
	s.mcp.AddTool(splitFileTool(), s.handleSplitFile)
	s.mcp.AddTool(extractSectionTool(), s.handleExtractSection)
	s.mcp.AddTool(getRunStatusTool(), s.handleGetRunStatus)

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.ledger.Close() }()
	return server.ServeStdio(s.mcp)
}
