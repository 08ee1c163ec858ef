package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerClipboardTools() {
	s.mcp.AddTool(mcp.NewTool("copy_element",
		mcp.WithDescription("Copy an element and its subtree to the clipboard. The clipboard is shared by all tabs."),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
	), s.handleCopyElement)

	s.mcp.AddTool(mcp.NewTool("paste_element",
		mcp.WithDescription("Paste the clipboard into the active tab with fresh IDs. Pastes into parentId when it is a frame, otherwise at the root. Creates an undo step."),
		mcp.WithString("parentId", mcp.Description("Target frame ID (optional)")),
	), s.handlePasteElement)
}

func (s *Server) registerHistoryTools() {
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last recorded step of the active tab"),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the next recorded step of the active tab"),
	), s.handleRedo)

	s.mcp.AddTool(mcp.NewTool("commit",
		mcp.WithDescription("Record the current state of the active tab as an undo step. Use after a batch of property edits."),
	), s.handleCommit)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleCopyElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "elementId")
	if err != nil {
		return nil, err
	}
	if _, err := s.findElement(id); err != nil {
		return nil, err
	}
	if err := s.editor.Copy(id); err != nil {
		return nil, fmt.Errorf("copy: %w", err)
	}
	return textResult(fmt.Sprintf("Element %s copied", id)), nil
}

func (s *Server) handlePasteElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.editor.Paste(ctx, getString(req.GetArguments(), "parentId", ""))
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	if id == "" {
		return textResult("Clipboard is empty"), nil
	}
	return jsonResult(map[string]string{"elementId": id})
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ok, err := s.editor.Undo(ctx)
	if err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}
	if !ok {
		return textResult("Nothing to undo"), nil
	}
	return textResult("Undone"), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ok, err := s.editor.Redo(ctx)
	if err != nil {
		return nil, fmt.Errorf("redo: %w", err)
	}
	if !ok {
		return textResult("Nothing to redo"), nil
	}
	return textResult("Redone"), nil
}

func (s *Server) handleCommit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.editor.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return textResult("State committed"), nil
}
