package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/hsncheck/internal/validator"
)

const (
	// ServerName is the MCP server name
	ServerName = "hsncheck"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the validation engine
type Server struct {
	mcp    *server.MCPServer
	engine *validator.Engine
	logger *slog.Logger
}

// NewServer creates an MCP server backed by engine. The server takes
// ownership of engine and closes it when Serve returns.
func NewServer(engine *validator.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcp:    server.NewMCPServer(ServerName, ServerVersion),
		engine: engine,
		logger: logger,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() {
		if err := s.engine.Close(); err != nil {
			s.logger.Warn("failed to close store", "error", err)
		}
	}()
	s.logger.Info("serving MCP over stdio", "name", ServerName, "version", ServerVersion)
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(validateCodeTool(), s.handleValidateCode)
	s.mcp.AddTool(searchCodesTool(), s.handleSearchCodes)
	s.mcp.AddTool(extractCodesTool(), s.handleExtractCodes)
}
