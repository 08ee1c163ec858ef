package editor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"cardeditor/internal/crd"
	"cardeditor/internal/domain"
	"cardeditor/internal/tree"
)

func counterIDs() tree.IDGenerator {
	n := 0
	return tree.IDGeneratorFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

var yes = ConfirmFunc(func(string) bool { return true })

func newTestEditor() *Editor {
	clock := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return New(Options{
		IDs: counterIDs(),
		Now: func() time.Time { return clock },
	})
}

// ─── Tabs ────────────────────────────────────────────────────────────

func TestNewEditorHasOneTab(t *testing.T) {
	e := newTestEditor()
	tabs := e.Workspace().Tabs()
	if len(tabs) != 1 {
		t.Fatalf("expected 1 tab, got %d", len(tabs))
	}
	tab := e.Active()
	if tab.Name != "Workspace 1" || tab.Modified || tab.History.Index() != -1 {
		t.Errorf("unexpected initial tab %+v", tab)
	}
	if !reflect.DeepEqual(tab.Canvas, domain.DefaultCanvasProperties()) {
		t.Error("expected default canvas")
	}
}

func TestCreateTab(t *testing.T) {
	e := newTestEditor()
	first := e.Active().ID
	tab := e.CreateTab()

	if tab.Name != "Workspace 2" {
		t.Errorf("expected Workspace 2, got %q", tab.Name)
	}
	if tab.ID == first {
		t.Error("tab ids must be unique")
	}
	if e.Active().ID != tab.ID {
		t.Error("new tab should be active")
	}
	if len(tab.Elements) != 0 || tab.History.Len() != 0 {
		t.Error("new tab should be empty")
	}
}

func TestCloseLastTab(t *testing.T) {
	e := newTestEditor()
	if err := e.CloseTab(e.Active().ID, nil); !errors.Is(err, domain.ErrLastTab) {
		t.Errorf("expected ErrLastTab, got %v", err)
	}
}

func TestCloseModifiedTabNeedsConfirmation(t *testing.T) {
	e := newTestEditor()
	e.CreateTab()
	if _, err := e.AddElement(domain.ElementText, ""); err != nil {
		t.Fatal(err)
	}
	tab := e.Active()

	var asked string
	decline := ConfirmFunc(func(msg string) bool { asked = msg; return false })
	if err := e.CloseTab(tab.ID, decline); !errors.Is(err, domain.ErrCloseCancelled) {
		t.Fatalf("expected ErrCloseCancelled, got %v", err)
	}
	if asked != `"Workspace 2" has unsaved changes. Close anyway?` {
		t.Errorf("unexpected prompt %q", asked)
	}
	if len(e.Workspace().Tabs()) != 2 {
		t.Error("tab closed despite declining")
	}

	accept := ConfirmFunc(func(string) bool { return true })
	if err := e.CloseTab(tab.ID, accept); err != nil {
		t.Fatal(err)
	}
	if len(e.Workspace().Tabs()) != 1 {
		t.Error("tab not closed")
	}
}

func TestCloseActiveTabActivatesPrevious(t *testing.T) {
	e := newTestEditor()
	first := e.Active()
	second := e.CreateTab()
	third := e.CreateTab()

	if err := e.SwitchTab(second.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.CloseTab(second.ID, nil); err != nil {
		t.Fatal(err)
	}
	if e.Active().ID != first.ID {
		t.Errorf("expected previous tab to become active")
	}

	if err := e.SwitchTab(first.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.CloseTab(first.ID, nil); err != nil {
		t.Fatal(err)
	}
	if e.Active().ID != third.ID {
		t.Errorf("expected first remaining tab to become active")
	}
}

func TestCloseInactiveTabKeepsActive(t *testing.T) {
	e := newTestEditor()
	first := e.Active()
	second := e.CreateTab()
	if err := e.CloseTab(first.ID, nil); err != nil {
		t.Fatal(err)
	}
	if e.Active().ID != second.ID {
		t.Error("active tab changed")
	}
}

func TestRenameTab(t *testing.T) {
	e := newTestEditor()
	id := e.Active().ID
	if err := e.RenameTab(id, "  Promo card "); err != nil {
		t.Fatal(err)
	}
	if e.Active().Name != "Promo card" {
		t.Errorf("expected trimmed name, got %q", e.Active().Name)
	}
	if e.Active().Modified {
		t.Error("rename must not touch content state")
	}
	if err := e.RenameTab(id, "   "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if err := e.RenameTab(id, strings.Repeat("x", MaxTabNameLength+1)); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for long name, got %v", err)
	}
	if err := e.RenameTab("nope", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestTabsAreIndependent(t *testing.T) {
	e := newTestEditor()
	first := e.Active()
	if _, err := e.AddElement(domain.ElementFrame, ""); err != nil {
		t.Fatal(err)
	}
	e.CreateTab()
	if len(e.Active().Elements) != 0 {
		t.Error("new tab sees elements of another tab")
	}
	e.UpdateCanvasProperty("width", "10px")
	if first.Canvas.Width != "400px" {
		t.Error("canvas edit leaked into another tab")
	}
}

// ─── Files ───────────────────────────────────────────────────────────

func TestExportLoadRoundTrip(t *testing.T) {
	e := newTestEditor()
	f, _ := e.AddElement(domain.ElementFrame, "")
	txt, _ := e.AddElement(domain.ElementText, f.ID)
	if err := e.UpdateProperty(txt.ID, "content", "Hello"); err != nil {
		t.Fatal(err)
	}
	e.UpdateCanvasProperty("backgroundColor", "#111111")
	before := e.Active()

	doc, name := e.Export()
	if before.Modified {
		t.Error("export should clear the modified flag")
	}
	if !strings.HasPrefix(name, "Workspace_1_") || !strings.HasSuffix(name, ".crd") {
		t.Errorf("unexpected file name %q", name)
	}
	data, err := crd.Encode(doc)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := e.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded.Elements, before.Elements) {
		t.Error("elements differ after round trip")
	}
	if !reflect.DeepEqual(loaded.Canvas, before.Canvas) {
		t.Error("canvas differs after round trip")
	}
	if loaded.Name != "Workspace 1" || loaded.History.Len() != 0 || e.Active() != loaded {
		t.Errorf("unexpected loaded tab %q len=%d", loaded.Name, loaded.History.Len())
	}
}

func TestLoadInvalidLeavesTabsUntouched(t *testing.T) {
	e := newTestEditor()
	active := e.Active()
	if _, err := e.Load([]byte(`{"canvas":{},"elements":[]}`)); !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	if len(e.Workspace().Tabs()) != 1 || e.Active() != active {
		t.Error("failed load changed the workspace")
	}
}

// ─── Selection & clipboard ───────────────────────────────────────────

func TestSelect(t *testing.T) {
	e := newTestEditor()
	el, _ := e.AddElement(domain.ElementIcon, "")
	for _, sel := range []domain.Selection{domain.Selection(el.ID), domain.SelectionCanvas, ""} {
		if !e.Select(sel) {
			t.Errorf("select %q reported no change", sel)
		}
		if e.Active().Selected != sel {
			t.Errorf("expected selection %q, got %q", sel, e.Active().Selected)
		}
	}
	e.Select(domain.SelectionCanvas)
	if e.Select(domain.SelectionCanvas) {
		t.Error("selecting the current selection again reported a change")
	}
	if e.Select("missing") {
		t.Error("unknown id should be ignored")
	}
	if e.Active().Selected != domain.SelectionCanvas {
		t.Errorf("selection changed to %q", e.Active().Selected)
	}
}

func TestCopyPasteText(t *testing.T) {
	e := newTestEditor()
	src, _ := e.AddElement(domain.ElementText, "")
	e.UpdateProperty(src.ID, "content", "Hello")
	e.RenameElement(src.ID, "Greeting")

	if err := e.Copy(src.ID); err != nil {
		t.Fatal(err)
	}
	id, err := e.Paste("")
	if err != nil {
		t.Fatal(err)
	}
	if id == "" || id == src.ID {
		t.Fatalf("expected a fresh id, got %q", id)
	}
	pasted, ok := e.Active().Find(id)
	if !ok {
		t.Fatal("pasted element not found")
	}
	if pasted.Name != "Greeting Copy" {
		t.Errorf("expected name %q, got %q", "Greeting Copy", pasted.Name)
	}
	if v, _ := domain.GetProperty(pasted.Properties, "content"); v != "Hello" {
		t.Errorf("expected content Hello, got %q", v)
	}
	if len(e.Active().Elements) != 2 {
		t.Errorf("expected paste at root, got %d roots", len(e.Active().Elements))
	}
	if e.Active().Selected != domain.Selection(id) {
		t.Error("pasted element should be selected")
	}
}

func TestPasteTarget(t *testing.T) {
	e := newTestEditor()
	frame, _ := e.AddElement(domain.ElementFrame, "")
	text, _ := e.AddElement(domain.ElementText, "")
	e.Copy(text.ID)

	id, _ := e.Paste(frame.ID)
	if el, _ := e.Active().Find(frame.ID); len(el.Children) != 1 || el.Children[0].ID != id {
		t.Error("expected paste into frame")
	}

	id, _ = e.Paste(text.ID)
	roots := e.Active().Elements
	if roots[len(roots)-1].ID != id {
		t.Error("paste onto a non-frame should go to the root")
	}
}

func TestPasteEmptyClipboard(t *testing.T) {
	e := newTestEditor()
	id, err := e.Paste("")
	if id != "" || err != nil {
		t.Errorf("expected silent no-op, got %q %v", id, err)
	}
	if e.Active().History.Len() != 0 || e.Active().Modified {
		t.Error("empty paste changed state")
	}
}

func TestPasteNestedFrameKeepsShape(t *testing.T) {
	e := newTestEditor()
	outer, _ := e.AddElement(domain.ElementFrame, "")
	inner, _ := e.AddElement(domain.ElementFrame, outer.ID)
	e.AddElement(domain.ElementImage, inner.ID)
	e.AddElement(domain.ElementText, outer.ID)

	e.Copy(outer.ID)
	id, _ := e.Paste("")
	e.Paste(id)

	forest := e.Active().Elements
	if err := tree.Validate(forest); err != nil {
		t.Fatalf("ids not unique after paste: %v", err)
	}
	src, _ := tree.Find(forest, outer.ID)
	dst, _ := tree.Find(forest, id)
	if len(dst.Children) != len(src.Children)+1 {
		t.Fatalf("expected %d children, got %d", len(src.Children)+1, len(dst.Children))
	}
	if dst.Children[0].Type != domain.ElementFrame || dst.Children[0].Children[0].Type != domain.ElementImage {
		t.Error("nesting not preserved")
	}
}

func TestClipboardSurvivesTabSwitch(t *testing.T) {
	e := newTestEditor()
	el, _ := e.AddElement(domain.ElementIcon, "")
	e.Copy(el.ID)
	e.CreateTab()

	id, err := e.Paste("")
	if err != nil || id == "" {
		t.Fatalf("paste in second tab failed: %q %v", id, err)
	}
	if len(e.Active().Elements) != 1 {
		t.Error("expected pasted icon in the new tab")
	}
}

func TestCopyIsDetached(t *testing.T) {
	e := newTestEditor()
	el, _ := e.AddElement(domain.ElementText, "")
	e.Copy(el.ID)
	e.UpdateProperty(el.ID, "content", "changed after copy")

	id, _ := e.Paste("")
	pasted, _ := e.Active().Find(id)
	if v, _ := domain.GetProperty(pasted.Properties, "content"); v != "Sample text" {
		t.Errorf("clipboard followed later edits: %q", v)
	}
}

// ─── Edits & history ─────────────────────────────────────────────────

func TestUndoFirstAdd(t *testing.T) {
	e := newTestEditor()
	e.AddElement(domain.ElementFrame, "")
	if !e.Undo() {
		t.Fatal("expected undo to succeed")
	}
	if len(e.Active().Elements) != 0 {
		t.Error("undo should return to the empty document")
	}
	if !e.Redo() || len(e.Active().Elements) != 1 {
		t.Error("redo should bring the frame back")
	}
}

func TestUndoRedoRestoresSelectionAndCanvas(t *testing.T) {
	e := newTestEditor()
	a, _ := e.AddElement(domain.ElementText, "")
	e.Select(domain.Selection(a.ID))
	e.UpdateCanvasProperty("width", "640px")
	e.Commit()
	before := e.Active().State()

	e.DeleteElement(a.ID, yes)
	if !e.Undo() {
		t.Fatal("undo failed")
	}
	if !reflect.DeepEqual(e.Active().State(), before) {
		t.Error("undo did not restore the committed state")
	}
	e.Redo()
	e.Undo()
	if !reflect.DeepEqual(e.Active().State(), before) {
		t.Error("undo/redo/undo drifted")
	}
}

func TestCommitAfterUndoDiscardsRedo(t *testing.T) {
	e := newTestEditor()
	e.AddElement(domain.ElementFrame, "")
	e.AddElement(domain.ElementText, "")
	e.Undo()
	e.AddElement(domain.ElementIcon, "")
	if e.Redo() {
		t.Error("redo must be unavailable after a new commit")
	}
}

func TestPropertyEditsAreNotCommitted(t *testing.T) {
	e := newTestEditor()
	el, _ := e.AddElement(domain.ElementText, "")
	n := e.Active().History.Len()

	e.UpdateProperty(el.ID, "color", "red")
	e.UpdateVariable(el.ID, "title")
	e.ToggleHidden(el.ID)
	if e.Active().History.Len() != n {
		t.Error("property edits should wait for Commit")
	}
	if !e.Active().Modified {
		t.Error("property edits should mark the tab modified")
	}
	e.Commit()
	if e.Active().History.Len() != n+1 {
		t.Error("Commit should add a snapshot")
	}
}

func TestMissingIDsAreNoops(t *testing.T) {
	e := newTestEditor()
	frame, _ := e.AddElement(domain.ElementFrame, "")
	e.Copy(frame.ID)
	before := e.Active().State()
	n := e.Active().History.Len()
	e.Active().Modified = false

	errs := []error{
		e.UpdateProperty("x", "color", "red"),
		e.UpdateVariable("x", "title"),
		e.ToggleHidden("x"),
		e.RenameElement("x", "y"),
		e.DeleteElement("x", yes),
		e.MoveElement("x", tree.CanvasID),
		e.MoveElement(frame.ID, "x"),
		e.Copy("x"),
	}
	for i, err := range errs {
		if err != nil {
			t.Errorf("op %d: expected silent no-op, got %v", i, err)
		}
	}
	if !reflect.DeepEqual(e.Active().State(), before) {
		t.Error("state changed")
	}
	if e.Active().History.Len() != n || e.Active().Modified {
		t.Error("no-op edits must not commit or mark the tab modified")
	}
	if got := e.Clipboard().Get(); got == nil || got.ID != frame.ID {
		t.Error("failed copy replaced the clipboard")
	}
}

func TestMoveIntoOwnSubtree(t *testing.T) {
	e := newTestEditor()
	outer, _ := e.AddElement(domain.ElementFrame, "")
	inner, _ := e.AddElement(domain.ElementFrame, outer.ID)
	n := e.Active().History.Len()

	if err := e.MoveElement(outer.ID, inner.ID); !errors.Is(err, domain.ErrCyclicMove) {
		t.Fatalf("expected ErrCyclicMove, got %v", err)
	}
	if e.Active().History.Len() != n {
		t.Error("rejected move was committed")
	}
	if err := e.MoveElement(inner.ID, tree.CanvasID); err != nil {
		t.Fatal(err)
	}
	if len(e.Active().Elements) != 2 {
		t.Error("expected inner frame at root")
	}
}

func TestDeleteClearsSelection(t *testing.T) {
	e := newTestEditor()
	a, _ := e.AddElement(domain.ElementFrame, "")
	e.Select(domain.Selection(a.ID))
	e.DeleteElement(a.ID, yes)
	if !e.Active().Selected.IsNone() {
		t.Errorf("expected empty selection, got %q", e.Active().Selected)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	e := newTestEditor()
	frame, _ := e.AddElement(domain.ElementFrame, "")
	e.AddElement(domain.ElementText, frame.ID)
	e.Select(domain.Selection(frame.ID))
	before := e.Active().State()
	n := e.Active().History.Len()

	var asked string
	no := ConfirmFunc(func(msg string) bool {
		asked = msg
		return false
	})
	if err := e.DeleteElement(frame.ID, no); !errors.Is(err, domain.ErrDeleteCancelled) {
		t.Fatalf("expected ErrDeleteCancelled, got %v", err)
	}
	if !strings.Contains(asked, frame.Name) || !strings.Contains(asked, "children") {
		t.Errorf("unexpected confirmation message %q", asked)
	}
	if !reflect.DeepEqual(e.Active().State(), before) || e.Active().History.Len() != n {
		t.Error("declined delete changed the document")
	}
	if err := e.DeleteElement(frame.ID, nil); !errors.Is(err, domain.ErrDeleteCancelled) {
		t.Errorf("nil confirmer should decline, got %v", err)
	}

	if err := e.DeleteElement(frame.ID, yes); err != nil {
		t.Fatal(err)
	}
	if len(e.Active().Elements) != 0 {
		t.Error("confirmed delete left the frame")
	}
}

func TestResizeElement(t *testing.T) {
	tests := []struct {
		dir           string
		dx, dy        int
		width, height string
	}{
		{"e", 30, 99, "150px", "80px"},
		{"w", 30, 99, "90px", "80px"},
		{"s", 99, 30, "120px", "110px"},
		{"n", 99, 30, "120px", "50px"},
		{"se", 10, 20, "130px", "100px"},
		{"sw", 10, 20, "110px", "100px"},
		{"ne", 10, 20, "130px", "60px"},
		{"nw", 10, 20, "110px", "60px"},
		{"nw", 500, 500, "20px", "20px"},
		{"se", -500, -500, "20px", "20px"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %d,%d", tt.dir, tt.dx, tt.dy), func(t *testing.T) {
			e := newTestEditor()
			el, _ := e.AddElement(domain.ElementFrame, "")
			e.UpdateProperty(el.ID, "width", "120px")
			e.UpdateProperty(el.ID, "height", "80px")
			e.Commit()
			n := e.Active().History.Len()

			if err := e.ResizeElement(el.ID, tt.dir, tt.dx, tt.dy); err != nil {
				t.Fatal(err)
			}
			got, _ := e.Active().Find(el.ID)
			w, _ := domain.GetProperty(got.Properties, "width")
			h, _ := domain.GetProperty(got.Properties, "height")
			if w != tt.width || h != tt.height {
				t.Errorf("expected %s x %s, got %s x %s", tt.width, tt.height, w, h)
			}
			if e.Active().History.Len() != n || !e.Active().Modified {
				t.Error("resize should mark the tab modified without committing")
			}
		})
	}
}

func TestResizeNonNumericSize(t *testing.T) {
	e := newTestEditor()
	el, _ := e.AddElement(domain.ElementFrame, "")
	e.UpdateProperty(el.ID, "width", "auto")
	e.UpdateProperty(el.ID, "height", "0px")

	if err := e.ResizeElement(el.ID, "e", 5, 0); err != nil {
		t.Fatal(err)
	}
	got, _ := e.Active().Find(el.ID)
	w, _ := domain.GetProperty(got.Properties, "width")
	h, _ := domain.GetProperty(got.Properties, "height")
	if w != "105px" || h != "100px" {
		t.Errorf("expected sizes to fall back to 100px, got %s x %s", w, h)
	}

	if err := e.ResizeElement(el.ID, "up", 5, 0); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for unknown direction, got %v", err)
	}
	if err := e.ResizeElement("missing", "e", 5, 0); err != nil {
		t.Errorf("unknown id should be ignored, got %v", err)
	}
}

func TestAddElementValidation(t *testing.T) {
	e := newTestEditor()
	if _, err := e.AddElement("video", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := e.AddElement(domain.ElementText, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	el, err := e.AddElement(domain.ElementText, domain.SelectionCanvas)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(el.Name, "Text ") {
		t.Errorf("unexpected generated name %q", el.Name)
	}
}

func TestInsertElementRejectsDuplicateIDs(t *testing.T) {
	e := newTestEditor()
	a, _ := e.AddElement(domain.ElementFrame, "")
	dup := &domain.Element{ID: a.ID, Type: domain.ElementText, Properties: domain.NewProperties(domain.ElementText)}
	if err := e.InsertElement(dup, ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestFillBindings(t *testing.T) {
	e := newTestEditor()
	el, _ := e.AddElement(domain.ElementText, "")
	e.UpdateVariable(el.ID, "headline")
	e.Commit()
	n := e.Active().History.Len()

	if got := e.FillBindings(map[string]string{"headline": "Big news"}); got != 1 {
		t.Fatalf("expected 1 update, got %d", got)
	}
	got, _ := e.Active().Find(el.ID)
	if v, _ := domain.GetProperty(got.Properties, "content"); v != "Big news" {
		t.Errorf("expected content filled, got %q", v)
	}
	if e.Active().History.Len() != n+1 {
		t.Error("filling bindings should commit")
	}
	if e.FillBindings(map[string]string{"headline": "Big news"}) != 0 {
		t.Error("unchanged values should not count")
	}
}
