package app

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"cardeditor/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default(t.TempDir())
	cfg.Environment = "test"
	cfg.AutosaveSchedule = ""
	cfg.WatchFiles = false
	return cfg
}

func TestStackRestoresSessionAfterClose(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	log := cfg.NewLogger(io.Discard)

	st, err := openStack(ctx, cfg, noopEmitter{}, log)
	if err != nil {
		t.Fatalf("open stack: %v", err)
	}
	el, err := st.editor.AddElement(ctx, "text", "")
	if err != nil {
		t.Fatalf("add element: %v", err)
	}
	if err := st.editor.RenameTab(ctx, st.editor.Document().TabID, "Profile"); err != nil {
		t.Fatalf("rename tab: %v", err)
	}
	st.close(ctx)

	st, err = openStack(ctx, cfg, noopEmitter{}, log)
	if err != nil {
		t.Fatalf("reopen stack: %v", err)
	}
	defer st.close(ctx)

	doc := st.editor.Document()
	if doc.Name != "Profile" {
		t.Errorf("expected tab name Profile, got %q", doc.Name)
	}
	if len(doc.Elements) != 1 || doc.Elements[0].ID != el.ID {
		t.Fatalf("expected restored element %s, got %+v", el.ID, doc.Elements)
	}
	if !doc.CanUndo {
		t.Error("expected history to be restored")
	}
}

func TestStackSavesFilesToDataDir(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	st, err := openStack(ctx, cfg, noopEmitter{}, cfg.NewLogger(io.Discard))
	if err != nil {
		t.Fatalf("open stack: %v", err)
	}
	defer st.close(ctx)

	path, err := st.files.SaveAs(ctx, "")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Dir(path) != cfg.DataDir {
		t.Errorf("expected file in %s, got %s", cfg.DataDir, path)
	}
}

func TestStackRejectsBadSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.AutosaveSchedule = "every now and then"
	if _, err := openStack(context.Background(), cfg, noopEmitter{}, cfg.NewLogger(io.Discard)); err == nil {
		t.Fatal("expected schedule error")
	}
}
