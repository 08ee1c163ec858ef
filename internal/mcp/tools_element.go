package mcpserver

import (
	"context"
	"fmt"
	"math"

	"cardeditor/internal/domain"
	"cardeditor/internal/editor"
	"cardeditor/internal/tree"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerElementTools() {
	// ── add_element ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_element",
		mcp.WithDescription("Add an element with default properties to the active tab. Creates an undo step."),
		mcp.WithString("type",
			mcp.Description("Element type"),
			mcp.Enum("frame", "text", "image", "icon"),
			mcp.Required(),
		),
		mcp.WithString("parentId",
			mcp.Description("ID of the parent element (optional, omit or use \"canvas\" for the root)"),
		),
	), s.handleAddElement)

	// ── move_element ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_element",
		mcp.WithDescription("Move an element and its subtree under another element, or to the root with \"canvas\". Creates an undo step."),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithString("parentId", mcp.Description("New parent ID, or \"canvas\""), mcp.Required()),
	), s.handleMoveElement)

	// ── delete_element (destructive) ───────────────────
	s.mcp.AddTool(mcp.NewTool("delete_element",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete an element and all of its children. Requires user approval."),
		mcp.WithString("elementId", mcp.Description("Element ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteElement)

	// ── update_property ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_property",
		mcp.WithDescription("Set one property of an element (e.g. content, color, fontSize, width). Does not create an undo step unless commit is true."),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithString("key", mcp.Description("Property key, camelCase as in the document JSON"), mcp.Required()),
		mcp.WithString("value", mcp.Description("New value"), mcp.Required()),
		mcp.WithBoolean("commit", mcp.Description("Record an undo step after the change (default false)")),
	), s.handleUpdateProperty)

	// ── set_variable ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_variable",
		mcp.WithDescription("Bind an element to a template variable name. An empty name removes the binding."),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("Variable name")),
		mcp.WithBoolean("commit", mcp.Description("Record an undo step after the change (default false)")),
	), s.handleSetVariable)

	// ── toggle_hidden ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("toggle_hidden",
		mcp.WithDescription("Show or hide an element. Hidden elements are not rendered."),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithBoolean("commit", mcp.Description("Record an undo step after the change (default false)")),
	), s.handleToggleHidden)

	// ── resize_element ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_element",
		mcp.WithDescription("Drag a resize handle of an element by dx, dy pixels. Width and height are written as \"<n>px\" and never go below 20px. Does not create an undo step unless commit is true."),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithString("direction",
			mcp.Description("Handle being dragged"),
			mcp.Enum(tree.ResizeDirections...),
			mcp.Required(),
		),
		mcp.WithNumber("dx", mcp.Description("Horizontal drag in pixels (default 0)")),
		mcp.WithNumber("dy", mcp.Description("Vertical drag in pixels (default 0)")),
		mcp.WithBoolean("commit", mcp.Description("Record an undo step after the change (default false)")),
	), s.handleResizeElement)

	// ── rename_element ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_element",
		mcp.WithDescription("Change the display name of an element"),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
		mcp.WithBoolean("commit", mcp.Description("Record an undo step after the change (default false)")),
	), s.handleRenameElement)

	// ── update_canvas_property ─────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_canvas_property",
		mcp.WithDescription("Set one property of the card canvas (e.g. backgroundColor, width, padding)"),
		mcp.WithString("key", mcp.Description("Canvas property key"), mcp.Required()),
		mcp.WithString("value", mcp.Description("New value"), mcp.Required()),
		mcp.WithBoolean("commit", mcp.Description("Record an undo step after the change (default false)")),
	), s.handleUpdateCanvasProperty)

	// ── select_element ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_element",
		mcp.WithDescription("Select an element, the canvas (\"canvas\"), or nothing (empty)"),
		mcp.WithString("elementId", mcp.Description("Element ID, \"canvas\" or empty")),
	), s.handleSelectElement)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleAddElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	typ, err := requireString(args, "type")
	if err != nil {
		return nil, err
	}
	el, err := s.editor.AddElement(ctx, domain.ElementType(typ), getString(args, "parentId", ""))
	if err != nil {
		return nil, fmt.Errorf("add element: %w", err)
	}
	return jsonResult(summarizeElement(el))
}

func (s *Server) handleMoveElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "elementId")
	if err != nil {
		return nil, err
	}
	if _, err := s.findElement(id); err != nil {
		return nil, err
	}
	parent, err := requireString(args, "parentId")
	if err != nil {
		return nil, err
	}
	if err := s.editor.MoveElement(ctx, id, parent); err != nil {
		return nil, fmt.Errorf("move element: %w", err)
	}
	return textResult(fmt.Sprintf("Element %s moved to %s", id, parent)), nil
}

func (s *Server) handleDeleteElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "elementId")
	if err != nil {
		return nil, err
	}
	el, err := s.findElement(id)
	if err != nil {
		return nil, err
	}

	// Require approval (with metadata for frontend highlight)
	meta := fmt.Sprintf(`{"elementIds":[%q]}`, el.ID)
	desc := fmt.Sprintf("Delete %s %q", el.Type, el.Name)
	if n := tree.Count(el.Children); n > 0 {
		desc += fmt.Sprintf(" and %d nested elements", n)
	}
	if !s.confirm("delete_element", desc, meta) {
		return textResult("Action rejected by user"), nil
	}

	// Approval above is the confirmation.
	approved := editor.ConfirmFunc(func(string) bool { return true })
	if err := s.editor.DeleteElement(ctx, id, approved); err != nil {
		return nil, fmt.Errorf("delete element: %w", err)
	}
	return textResult(fmt.Sprintf("Element %s deleted", id)), nil
}

func (s *Server) handleUpdateProperty(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "elementId")
	if err != nil {
		return nil, err
	}
	if _, err := s.findElement(id); err != nil {
		return nil, err
	}
	key, err := requireString(args, "key")
	if err != nil {
		return nil, err
	}
	if err := s.editor.UpdateProperty(ctx, id, key, getString(args, "value", "")); err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}
	return s.maybeCommit(ctx, args, fmt.Sprintf("Property %s of %s updated", key, id))
}

func (s *Server) handleSetVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "elementId")
	if err != nil {
		return nil, err
	}
	if _, err := s.findElement(id); err != nil {
		return nil, err
	}
	name := getString(args, "name", "")
	if err := s.editor.UpdateVariable(ctx, id, name); err != nil {
		return nil, fmt.Errorf("set variable: %w", err)
	}
	if name == "" {
		return s.maybeCommit(ctx, args, fmt.Sprintf("Binding removed from %s", id))
	}
	return s.maybeCommit(ctx, args, fmt.Sprintf("Element %s bound to %q", id, name))
}

func (s *Server) handleToggleHidden(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "elementId")
	if err != nil {
		return nil, err
	}
	if _, err := s.findElement(id); err != nil {
		return nil, err
	}
	if err := s.editor.ToggleHidden(ctx, id); err != nil {
		return nil, fmt.Errorf("toggle hidden: %w", err)
	}
	state := "visible"
	if el, ok := tree.Find(s.editor.Document().Elements, id); ok && el.Hidden {
		state = "hidden"
	}
	return s.maybeCommit(ctx, args, fmt.Sprintf("Element %s is now %s", id, state))
}

func (s *Server) handleResizeElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "elementId")
	if err != nil {
		return nil, err
	}
	if _, err := s.findElement(id); err != nil {
		return nil, err
	}
	dir, err := requireString(args, "direction")
	if err != nil {
		return nil, err
	}
	dx := int(math.Round(getFloat(args, "dx", 0)))
	dy := int(math.Round(getFloat(args, "dy", 0)))
	if err := s.editor.ResizeElement(ctx, id, dir, dx, dy); err != nil {
		return nil, fmt.Errorf("resize element: %w", err)
	}
	size := ""
	if el, ok := tree.Find(s.editor.Document().Elements, id); ok && el.Properties != nil {
		w, _ := domain.GetProperty(el.Properties, "width")
		h, _ := domain.GetProperty(el.Properties, "height")
		size = w + " x " + h
	}
	return s.maybeCommit(ctx, args, fmt.Sprintf("Element %s resized to %s", id, size))
}

func (s *Server) handleRenameElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "elementId")
	if err != nil {
		return nil, err
	}
	if _, err := s.findElement(id); err != nil {
		return nil, err
	}
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	if err := s.editor.RenameElement(ctx, id, name); err != nil {
		return nil, fmt.Errorf("rename element: %w", err)
	}
	return s.maybeCommit(ctx, args, fmt.Sprintf("Element %s renamed to %q", id, name))
}

func (s *Server) handleUpdateCanvasProperty(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	key, err := requireString(args, "key")
	if err != nil {
		return nil, err
	}
	if err := s.editor.UpdateCanvasProperty(ctx, key, getString(args, "value", "")); err != nil {
		return nil, fmt.Errorf("update canvas: %w", err)
	}
	return s.maybeCommit(ctx, args, fmt.Sprintf("Canvas %s updated", key))
}

func (s *Server) handleSelectElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel := domain.Selection(getString(req.GetArguments(), "elementId", ""))
	if id := sel.ElementID(); id != "" {
		if _, err := s.findElement(id); err != nil {
			return nil, err
		}
	}
	if err := s.editor.Select(ctx, sel); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	switch {
	case sel.IsNone():
		return textResult("Selection cleared"), nil
	case sel.IsCanvas():
		return textResult("Canvas selected"), nil
	}
	return textResult(fmt.Sprintf("Element %s selected", sel)), nil
}

// findElement resolves id in the active tab. The editor ignores stale ids;
// agents get an error instead so they can refresh their view.
func (s *Server) findElement(id string) (*domain.Element, error) {
	el, ok := tree.Find(s.editor.Document().Elements, id)
	if !ok {
		return nil, fmt.Errorf("element %s: %w", id, domain.ErrNotFound)
	}
	return el, nil
}

// maybeCommit records an undo step when the caller passed commit=true.
func (s *Server) maybeCommit(ctx context.Context, args map[string]any, msg string) (*mcp.CallToolResult, error) {
	if getBool(args, "commit", false) {
		if err := s.editor.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit: %w", err)
		}
		msg += " (committed)"
	}
	return textResult(msg), nil
}

// ── Summaries ──────────────────────────────────────────────

type elementSummary struct {
	ID       string             `json:"id"`
	Type     domain.ElementType `json:"type"`
	Name     string             `json:"name"`
	Variavel string             `json:"variavel,omitempty"`
	Hidden   bool               `json:"hidden,omitempty"`
	Children int                `json:"children"`
}

func summarizeElement(el *domain.Element) elementSummary {
	return elementSummary{
		ID:       el.ID,
		Type:     el.Type,
		Name:     el.Name,
		Variavel: el.Variavel,
		Hidden:   el.Hidden,
		Children: len(el.Children),
	}
}
