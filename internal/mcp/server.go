// ABOUTME: MCP server implementation for readlog
// ABOUTME: Provides tools, resources, and prompts for AI agents to log and review reading sessions

package mcp

import (
	"context"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/persist"
)

// Server wraps the MCP server with readlog-specific context
type Server struct {
	mcpServer *server.MCPServer
	coord     *persist.Coordinator
	opts      models.ValidateOptions
	logger    *zap.Logger
	now       func() time.Time

	// mu serializes tool calls; the local stores rewrite whole files.
	mu sync.Mutex
}

// NewServer creates a new MCP server instance
func NewServer(coord *persist.Coordinator, opts models.ValidateOptions, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		coord:  coord,
		opts:   opts,
		logger: logger.Named("mcp"),
		now:    time.Now,
	}

	s.mcpServer = server.NewMCPServer(
		"readlog",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// serialized runs h while holding the server lock.
func (s *Server) serialized(name string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.logger.Debug("tool call", zap.String("tool", name))
		return h(ctx, req)
	}
}

// registerTools is implemented in tools.go
// registerResources is implemented in resources.go
// registerPrompts is implemented in prompts.go
