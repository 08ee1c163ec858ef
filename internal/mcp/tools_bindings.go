package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerBindingTools() {
	// ── list_bindings ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_bindings",
		mcp.WithDescription("List the template variables of the active tab: which element each binds and its current value"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListBindings)

	// ── fill_bindings ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("fill_bindings",
		mcp.WithDescription("Fill template variables with data. Text elements receive content, images a file URL, icons an icon name. Creates one undo step."),
		mcp.WithString("values",
			mcp.Description(`JSON object of variable name to value, e.g. {"title":"Hello","avatar":"https://..."}`),
			mcp.Required(),
		),
	), s.handleFillBindings)
}

func (s *Server) handleListBindings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.editor.Bindings())
}

func (s *Server) handleFillBindings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := requireString(req.GetArguments(), "values")
	if err != nil {
		return nil, err
	}
	var values map[string]string
	if err := parseJSON(raw, &values); err != nil {
		return nil, fmt.Errorf("invalid values JSON: %w", err)
	}
	n, err := s.editor.FillBindings(ctx, values)
	if err != nil {
		return nil, fmt.Errorf("fill bindings: %w", err)
	}
	return textResult(fmt.Sprintf("%d elements updated", n)), nil
}
