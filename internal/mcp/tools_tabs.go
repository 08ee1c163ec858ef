package mcpserver

import (
	"context"
	"fmt"

	"cardeditor/internal/editor"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTabTools() {
	// ── list_tabs ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_tabs",
		mcp.WithDescription("List all open workspace tabs with their modified and undo/redo state"),
	), s.handleListTabs)

	// ── create_tab ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_tab",
		mcp.WithDescription("Open a new empty workspace tab and make it active"),
	), s.handleCreateTab)

	// ── switch_tab ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("switch_tab",
		mcp.WithDescription("Make another tab the active one. Element tools always act on the active tab."),
		mcp.WithString("tabId", mcp.Description("Tab ID"), mcp.Required()),
	), s.handleSwitchTab)

	// ── rename_tab ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_tab",
		mcp.WithDescription("Rename a tab"),
		mcp.WithString("tabId", mcp.Description("Tab ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New tab name"), mcp.Required()),
	), s.handleRenameTab)

	// ── close_tab (destructive) ────────────────────────
	s.mcp.AddTool(mcp.NewTool("close_tab",
		mcp.WithDescription("🛑 DESTRUCTIVE: Close a tab. Closing a tab with unsaved changes requires user approval. The last tab cannot be closed."),
		mcp.WithString("tabId", mcp.Description("Tab ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleCloseTab)

	// ── get_document ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Return the active tab: element tree, canvas properties, selection and history state"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleGetDocument)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListTabs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.editor.Tabs())
}

func (s *Server) handleCreateTab(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := s.editor.CreateTab(ctx)
	if err != nil {
		return nil, fmt.Errorf("create tab: %w", err)
	}
	return jsonResult(info)
}

func (s *Server) handleSwitchTab(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "tabId")
	if err != nil {
		return nil, err
	}
	if err := s.editor.SwitchTab(ctx, id); err != nil {
		return nil, fmt.Errorf("switch tab: %w", err)
	}
	return textResult(fmt.Sprintf("Tab %s is now active", id)), nil
}

func (s *Server) handleRenameTab(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "tabId")
	if err != nil {
		return nil, err
	}
	name := getString(args, "name", "")
	if err := s.editor.RenameTab(ctx, id, name); err != nil {
		return nil, fmt.Errorf("rename tab: %w", err)
	}
	return textResult(fmt.Sprintf("Tab %s renamed", id)), nil
}

func (s *Server) handleCloseTab(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "tabId")
	if err != nil {
		return nil, err
	}

	// Ask before taking the editor lock; approval can take minutes.
	var info editor.TabInfo
	for _, t := range s.editor.Tabs() {
		if t.ID == id {
			info = t
		}
	}
	if info.ID != "" && info.Modified {
		meta := fmt.Sprintf(`{"tabIds":[%q]}`, id)
		if !s.confirm("close_tab", fmt.Sprintf("Close %q and discard unsaved changes", info.Name), meta) {
			return textResult("Action rejected by user"), nil
		}
	}

	approved := editor.ConfirmFunc(func(string) bool { return true })
	if err := s.editor.CloseTab(ctx, id, approved); err != nil {
		return nil, fmt.Errorf("close tab: %w", err)
	}
	if s.files != nil {
		s.files.Forget(id)
	}
	return textResult(fmt.Sprintf("Tab %s closed", id)), nil
}

func (s *Server) handleGetDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.editor.Document())
}
