package editor

import (
	"errors"
	"reflect"
	"testing"

	"cardeditor/internal/domain"
)

func TestRecordsRestoreSession(t *testing.T) {
	src := newTestEditor()
	el, _ := src.AddElement(domain.ElementFrame, "")
	src.Select(domain.Selection(el.ID))
	src.CreateTab()
	src.AddElement(domain.ElementText, "")
	src.Undo()
	src.RenameTab(src.Active().ID, "Second")

	recs, hists, active := src.Records()

	dst := newTestEditor()
	if err := dst.RestoreSession(recs, hists, active); err != nil {
		t.Fatal(err)
	}
	if len(dst.Workspace().Tabs()) != 2 {
		t.Fatalf("expected 2 tabs, got %d", len(dst.Workspace().Tabs()))
	}
	if dst.Active().Name != "Second" {
		t.Errorf("expected active tab Second, got %q", dst.Active().Name)
	}
	if !dst.Active().History.CanRedo() {
		t.Error("redo position should survive a restore")
	}
	if !dst.Redo() || len(dst.Active().Elements) != 1 {
		t.Error("redo after restore should bring the text back")
	}

	first := dst.Workspace().Tabs()[0]
	orig := src.Workspace().Tabs()[0]
	if !reflect.DeepEqual(first.State(), orig.State()) {
		t.Error("first tab state differs after restore")
	}
}

func TestRestoreSessionRejectsBadInput(t *testing.T) {
	e := newTestEditor()
	before := e.Active()
	if err := e.RestoreSession(nil, nil, ""); err == nil {
		t.Error("expected error for empty session")
	}
	recs := []domain.TabRecord{{ID: "a"}, {ID: "a"}}
	if err := e.RestoreSession(recs, nil, "a"); err == nil {
		t.Error("expected error for duplicate tab ids")
	}
	bad := []domain.HistoryRecord{{TabID: "a", States: []domain.HistoryState{{}}, Index: 4}}
	if err := e.RestoreSession([]domain.TabRecord{{ID: "a"}}, bad, "a"); err == nil {
		t.Error("expected error for bad history index")
	}
	if e.Active() != before {
		t.Error("failed restore changed the workspace")
	}
}

func TestMarkSaved(t *testing.T) {
	e := newTestEditor()
	e.AddElement(domain.ElementIcon, "")
	id := e.Active().ID
	if err := e.MarkSaved(id, "/tmp/card.crd"); err != nil {
		t.Fatal(err)
	}
	if e.Active().Modified || e.Active().FilePath != "/tmp/card.crd" {
		t.Errorf("unexpected tab state %+v", e.Active())
	}
	if err := e.MarkSaved("nope", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
