package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("design_card",
		mcp.WithPromptDescription("Guide through building a card layout from frames, text, images and icons"),
		mcp.WithArgument("subject",
			mcp.ArgumentDescription("What the card shows (e.g. a user profile, a product)"),
			mcp.RequiredArgument(),
		),
	), s.handleDesignCardPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("fill_template",
		mcp.WithPromptDescription("Fill the template variables of the active card with data"),
		mcp.WithArgument("data",
			mcp.ArgumentDescription("The data to put on the card, in any form"),
			mcp.RequiredArgument(),
		),
	), s.handleFillTemplatePrompt)
}

func (s *Server) handleDesignCardPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	subject := req.Params.Arguments["subject"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Design a card for: %s", subject),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Design a card showing %q in the active tab. Follow these steps:

1. Call get_document to see the current elements and canvas.
2. Set the canvas size and background with update_canvas_property.
3. Add frames with add_element to group content, then add text, image and icon elements inside them (parentId = frame id).
4. Style elements with update_property (content, color, fontSize, padding, ...). Pass commit=true on the last edit of each element so it can be undone as one step.
5. Bind the fields that change per card to variables with set_variable so the card can be reused as a template.

Keep the hierarchy shallow and give elements descriptive names with rename_element.`, subject),
				},
			},
		},
	}, nil
}

func (s *Server) handleFillTemplatePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	data := req.Params.Arguments["data"]
	return &mcp.GetPromptResult{
		Description: "Fill the active card's template variables",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Fill the card in the active tab with this data:

%s

1. Call list_bindings to see which variables the card exposes and what each one currently holds.
2. Map the data onto those variable names.
3. Call fill_bindings once with a JSON object of all values.
4. Call get_document and check the result; use undo if something went wrong.`, data),
				},
			},
		},
	}, nil
}
