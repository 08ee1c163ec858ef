package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cardeditor/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for the card editor.
// It exposes tools, resources and prompts so AI agents can edit documents.
type Server struct {
	mcp      *server.MCPServer
	approval *ApprovalQueue // nil: destructive tools run without asking
	log      *slog.Logger

	editor *service.EditorService
	files  *service.FileService // nil disables open/save tools
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter EventEmitter
	Editor  *service.EditorService
	Files   *service.FileService
	Logger  *slog.Logger

	// RequireApproval routes destructive tools through the frontend.
	RequireApproval bool
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		log:    log.With("component", "mcp"),
		editor: deps.Editor,
		files:  deps.Files,
	}
	if deps.RequireApproval {
		s.approval = NewApprovalQueue(ctx, deps.Emitter)
	}

	s.mcp = server.NewMCPServer(
		"cardeditor-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTabTools()
	s.registerElementTools()
	s.registerClipboardTools()
	s.registerHistoryTools()
	s.registerBindingTools()
	if s.files != nil {
		s.registerFileTools()
	}
	s.registerResources()
	s.registerPrompts()

	return s
}

// MCPServer exposes the underlying server, for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// ServeHTTP serves the streamable HTTP transport on addr until ctx ends.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpSrv := server.NewStreamableHTTPServer(s.mcp)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	s.log.Info("starting http server", "addr", addr)
	if err := httpSrv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mcp http: %w", err)
	}
	return nil
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	if s.approval != nil {
		s.approval.Approve(actionID)
	}
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	if s.approval != nil {
		s.approval.Reject(actionID)
	}
}

// ── Helpers ────────────────────────────────────────────────

// confirm asks the user through the approval queue; without a queue every
// request is allowed.
func (s *Server) confirm(tool, description, meta string) bool {
	if s.approval == nil {
		return true
	}
	approved, err := s.approval.Request(tool, description, meta)
	if err != nil {
		s.log.Info("action not approved", "tool", tool, "reason", err)
	}
	return err == nil && approved
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
