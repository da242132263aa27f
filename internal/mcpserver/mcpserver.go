// Package mcpserver serves relink tools over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alexandremahdhaoui/ez-relink/internal/version"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with common functionality.
type Server struct {
	server *mcp.Server
	logger *slog.Logger
}

// New creates a new MCP server named after info.
func New(info *version.Info, logger *slog.Logger) *Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    info.ToolName,
		Version: info.Short(),
	}, nil)

	return &Server{
		server: server,
		logger: logger,
	}
}

// RegisterTool registers a tool with the MCP server.
// The handler must be a function with signature:
// func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, any, error)
func RegisterTool[In any](s *Server, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error)) {
	mcp.AddTool(s.server, tool, handler)
}

// Run starts the MCP server with stdio transport.
// It reads JSON-RPC requests from stdin and writes responses to stdout, so
// the logger must not write to stdout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		s.logger.Error("MCP server failed", "error", err)
		return err
	}

	return nil
}

// ErrorResult reports a failed tool call to the client.
func ErrorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}
}

// JSONResult returns v as the JSON text content of a successful tool call.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil
}
