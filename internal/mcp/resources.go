package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cardeditor/internal/crd"
	"cardeditor/internal/domain"
	"cardeditor/internal/editor"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	uriTabs      = "crd://tabs"
	uriActive    = "crd://active"
	uriTabPrefix = "crd://tab/"
)

func (s *Server) registerResources() {
	// ── crd://tabs ─────────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		uriTabs,
		"Open Tabs",
		mcp.WithMIMEType("application/json"),
	), s.handleTabsResource)

	// ── crd://active ───────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		uriActive,
		"Active Document",
		mcp.WithResourceDescription("The active tab in .crd format"),
		mcp.WithMIMEType("application/json"),
	), s.handleActiveResource)

	// ── crd://tab/{tabId} ──────────────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			uriTabPrefix+"{tabId}",
			"Document of a Tab",
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleTabResource,
	)
}

func (s *Server) handleTabsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.editor.Tabs(), "", "  ")
	if err != nil {
		return nil, err
	}
	return jsonContents(uriTabs, data), nil
}

func (s *Server) handleActiveResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	f, _ := s.editor.Export()
	data, err := crd.Encode(f)
	if err != nil {
		return nil, err
	}
	return jsonContents(uriActive, data), nil
}

func (s *Server) handleTabResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	tabID := extractTabIDFromURI(uri)
	if tabID == "" {
		return nil, fmt.Errorf("invalid URI: %s", uri)
	}

	var f *domain.CRDFile
	err := s.editor.View(func(e *editor.Editor) error {
		t, ok := e.Workspace().Tab(tabID)
		if !ok {
			return fmt.Errorf("tab %s: %w", tabID, domain.ErrNotFound)
		}
		f = crd.New(t.Name, t.Elements, t.Canvas, time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	data, err := crd.Encode(f)
	if err != nil {
		return nil, err
	}
	return jsonContents(uri, data), nil
}

// extractTabIDFromURI parses crd://tab/{tabId}.
func extractTabIDFromURI(uri string) string {
	id, ok := strings.CutPrefix(uri, uriTabPrefix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}

func jsonContents(uri string, data []byte) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}
}
