package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerFileTools() {
	s.mcp.AddTool(mcp.NewTool("open_document",
		mcp.WithDescription("Open a .crd file in a new tab"),
		mcp.WithString("path", mcp.Description("Path of the .crd file"), mcp.Required()),
	), s.handleOpenDocument)

	s.mcp.AddTool(mcp.NewTool("save_document",
		mcp.WithDescription("Save the active tab as a .crd file. Without a path the tab's current file is reused, or a name is generated in the data directory."),
		mcp.WithString("path", mcp.Description("Destination path (optional)")),
	), s.handleSaveDocument)
}

func (s *Server) handleOpenDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := requireString(req.GetArguments(), "path")
	if err != nil {
		return nil, err
	}
	info, err := s.files.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return jsonResult(info)
}

func (s *Server) handleSaveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		path string
		err  error
	)
	if p := getString(req.GetArguments(), "path", ""); p != "" {
		path, err = s.files.SaveAs(ctx, p)
	} else {
		path, err = s.files.Save(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return textResult(fmt.Sprintf("Saved to %s", path)), nil
}
