// Package editor holds the editing session: open tabs, the clipboard and
// the operations a user performs on the active document.
//
// An Editor is not safe for concurrent use.
package editor

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cardeditor/internal/domain"
	"cardeditor/internal/history"
	"cardeditor/internal/tree"
)

type Options struct {
	// MaxHistory caps the snapshots kept per tab; 0 uses history.DefaultMax
	// and a negative value keeps everything.
	MaxHistory int
	IDs        tree.IDGenerator
	Now        func() time.Time
	Logger     *slog.Logger
}

type Editor struct {
	ws   *Workspace
	clip Clipboard
	ids  tree.IDGenerator
	now  func() time.Time
	log  *slog.Logger
}

func New(opts Options) *Editor {
	if opts.IDs == nil {
		opts.IDs = tree.UUIDGenerator{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	switch {
	case opts.MaxHistory == 0:
		opts.MaxHistory = history.DefaultMax
	case opts.MaxHistory < 0:
		opts.MaxHistory = 0
	}
	return &Editor{
		ws:  newWorkspace(opts.IDs, opts.MaxHistory, opts.Now),
		ids: opts.IDs,
		now: opts.Now,
		log: opts.Logger.With("component", "editor"),
	}
}

func (e *Editor) Workspace() *Workspace { return e.ws }

func (e *Editor) Active() *Tab { return e.ws.Active() }

func (e *Editor) Clipboard() *Clipboard { return &e.clip }

// ── tabs ──────────────────────────────────────────────────

func (e *Editor) CreateTab() *Tab {
	t := e.ws.CreateTab()
	e.log.Debug("tab created", "tab", t.ID, "name", t.Name)
	return t
}

func (e *Editor) CloseTab(id string, c Confirmer) error {
	if err := e.ws.CloseTab(id, c); err != nil {
		return err
	}
	e.log.Debug("tab closed", "tab", id)
	return nil
}

func (e *Editor) RenameTab(id, name string) error { return e.ws.RenameTab(id, name) }

func (e *Editor) SwitchTab(id string) error { return e.ws.SwitchTab(id) }

// Load opens a .crd document in a new tab.
func (e *Editor) Load(data []byte) (*Tab, error) {
	t, err := e.ws.LoadFromFile(data)
	if err != nil {
		e.log.Warn("rejected document", "error", err)
		return nil, err
	}
	e.log.Info("document loaded", "tab", t.ID, "name", t.Name, "elements", tree.Count(t.Elements))
	return t, nil
}

// Export serialises the active tab and marks it saved.
func (e *Editor) Export() (*domain.CRDFile, string) {
	f, name := e.ws.ExportToFile()
	e.Active().Modified = false
	return f, name
}

// ── selection & clipboard ─────────────────────────────────

// Select sets the active tab's selection to "", the canvas sentinel or the
// id of an element in the tab. An id that is not in the tab leaves the
// selection alone. It reports whether the selection changed.
func (e *Editor) Select(sel domain.Selection) bool {
	t := e.Active()
	if id := sel.ElementID(); id != "" && !e.exists(t, id) {
		return false
	}
	if t.Selected == sel {
		return false
	}
	t.Selected = sel
	return true
}

// Copy puts a deep copy of an element of the active tab on the clipboard.
// The clipboard keeps its content when id is not found.
func (e *Editor) Copy(id string) error {
	el, ok := e.Active().Find(id)
	if !ok {
		e.log.Debug("copy ignored, element not found", "element", id)
		return nil
	}
	e.clip.Set(el)
	return nil
}

// Paste inserts a copy of the clipboard with fresh ids under targetParentID
// when that names a frame, otherwise at the root. The pasted element is
// selected and the result committed. It returns the new element's id, or ""
// when the clipboard is empty.
func (e *Editor) Paste(targetParentID string) (string, error) {
	src := e.clip.Get()
	if src == nil {
		return "", nil
	}
	t := e.Active()
	e.baseline(t)

	el := tree.CloneWithNewIDs(src, tree.NewUniqueGenerator(e.ids, t.Elements))
	parent := ""
	if p, ok := t.Find(targetParentID); ok && p.Type == domain.ElementFrame {
		parent = p.ID
	}
	t.Elements = tree.Insert(t.Elements, el, parent)
	t.Selected = domain.Selection(el.ID)
	e.commit(t)
	return el.ID, nil
}

// ── structural edits (committed) ──────────────────────────

// AddElement creates an element of type typ with default properties under
// parentID ("" for the root) and commits.
func (e *Editor) AddElement(typ domain.ElementType, parentID string) (*domain.Element, error) {
	if !typ.Valid() {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown element type %q", typ)}
	}
	t := e.Active()
	if parentID == domain.SelectionCanvas {
		parentID = ""
	}
	if parentID != "" {
		if _, ok := t.Find(parentID); !ok {
			return nil, fmt.Errorf("parent %s: %w", parentID, domain.ErrNotFound)
		}
	}
	e.baseline(t)

	now := e.now()
	el := &domain.Element{
		ID:         tree.NewUniqueGenerator(e.ids, t.Elements).NewID(),
		Type:       typ,
		Name:       typ.DisplayName() + " " + strconv.FormatInt(now.UnixMilli(), 10),
		Properties: domain.NewProperties(typ),
	}
	t.Elements = tree.Insert(t.Elements, el, parentID)
	e.commit(t)
	return el, nil
}

// InsertElement adds a prepared subtree. Its ids must not clash with the
// tab's document.
func (e *Editor) InsertElement(el *domain.Element, parentID string) error {
	t := e.Active()
	if parentID == domain.SelectionCanvas {
		parentID = ""
	}
	if parentID != "" {
		if _, ok := t.Find(parentID); !ok {
			return fmt.Errorf("parent %s: %w", parentID, domain.ErrNotFound)
		}
	}
	next := tree.Insert(t.Elements, tree.CopyElement(el), parentID)
	if err := tree.Validate(next); err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	e.baseline(t)
	t.Elements = next
	e.commit(t)
	return nil
}

// MoveElement re-parents an element; newParentID "canvas" or "" moves it to
// the root. Unknown ids are ignored; a move into the element's own subtree
// is refused with ErrCyclicMove.
func (e *Editor) MoveElement(id, newParentID string) error {
	t := e.Active()
	if !e.exists(t, id) {
		return nil
	}
	if newParentID != "" && newParentID != tree.CanvasID && !e.exists(t, newParentID) {
		return nil
	}
	next, err := tree.Move(t.Elements, id, newParentID)
	if err != nil {
		e.log.Warn("move rejected", "element", id, "parent", newParentID, "error", err)
		return err
	}
	e.baseline(t)
	t.Elements = next
	e.commit(t)
	return nil
}

// DeleteElement removes an element and its subtree, clears the selection
// and commits. The deletion only happens when c confirms; a nil c never
// confirms.
func (e *Editor) DeleteElement(id string, c Confirmer) error {
	t := e.Active()
	el, ok := t.Find(id)
	if !ok {
		e.log.Debug("delete ignored, element not found", "tab", t.ID, "element", id)
		return nil
	}
	msg := fmt.Sprintf("%q and its children will be removed. Delete anyway?", el.Name)
	if c == nil || !c.Confirm(msg) {
		return domain.ErrDeleteCancelled
	}
	e.baseline(t)
	t.Elements = tree.Remove(t.Elements, id)
	t.Selected = ""
	e.commit(t)
	return nil
}

// FillBindings sets the bound property of every element whose variable
// appears in values. It commits when anything changed and returns the
// number of elements updated.
func (e *Editor) FillBindings(values map[string]string) int {
	t := e.Active()
	next, n := tree.ApplyBindings(t.Elements, values)
	if n == 0 {
		return 0
	}
	e.baseline(t)
	t.Elements = next
	e.commit(t)
	return n
}

// ── property edits (uncommitted) ──────────────────────────

// UpdateProperty sets one property of an element. Like the other property
// edits it marks the tab modified but leaves committing to the caller.
func (e *Editor) UpdateProperty(id, key, value string) error {
	return e.edit(id, func(f []*domain.Element) []*domain.Element {
		return tree.UpdateProperty(f, id, key, value)
	})
}

func (e *Editor) UpdateVariable(id, value string) error {
	return e.edit(id, func(f []*domain.Element) []*domain.Element {
		return tree.UpdateVariable(f, id, value)
	})
}

func (e *Editor) ToggleHidden(id string) error {
	return e.edit(id, func(f []*domain.Element) []*domain.Element {
		return tree.ToggleHidden(f, id)
	})
}

func (e *Editor) RenameElement(id, name string) error {
	return e.edit(id, func(f []*domain.Element) []*domain.Element {
		return tree.Rename(f, id, name)
	})
}

// ResizeElement drags one of the element's resize handles ("n", "se", ...)
// by dx, dy pixels. Width and height are rewritten as "<n>px" and never drop
// below tree.MinSize.
func (e *Editor) ResizeElement(id, direction string, dx, dy int) error {
	if err := validation.Validate(direction, validation.In(resizeDirections()...)); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("resize direction %q: %v", direction, err)}
	}
	return e.edit(id, func(f []*domain.Element) []*domain.Element {
		return tree.Resize(f, id, direction, dx, dy)
	})
}

func resizeDirections() []interface{} {
	out := make([]interface{}, len(tree.ResizeDirections))
	for i, d := range tree.ResizeDirections {
		out[i] = d
	}
	return out
}

func (e *Editor) UpdateCanvasProperty(key, value string) {
	t := e.Active()
	e.baseline(t)
	t.Canvas = t.Canvas.With(key, value)
	t.Modified = true
}

func (e *Editor) edit(id string, fn func([]*domain.Element) []*domain.Element) error {
	t := e.Active()
	if !e.exists(t, id) {
		return nil
	}
	e.baseline(t)
	t.Elements = fn(t.Elements)
	t.Modified = true
	return nil
}

// exists reports whether id is in t. Edits aimed at a missing id are no-ops:
// the id may have gone stale between the UI event and the edit.
func (e *Editor) exists(t *Tab, id string) bool {
	if _, ok := t.Find(id); ok {
		return true
	}
	e.log.Debug("edit ignored, element not found", "tab", t.ID, "element", id)
	return false
}

// ── history ───────────────────────────────────────────────

// Commit snapshots the active tab into its history.
func (e *Editor) Commit() {
	t := e.Active()
	t.History.Commit(t.State())
}

// Undo restores the snapshot before the current one. It reports false when
// there is nothing to undo.
func (e *Editor) Undo() bool {
	t := e.Active()
	s, ok := t.History.Undo()
	if ok {
		t.restore(s)
		t.Modified = true
	}
	return ok
}

// Redo reapplies the snapshot after the current one.
func (e *Editor) Redo() bool {
	t := e.Active()
	s, ok := t.History.Redo()
	if ok {
		t.restore(s)
		t.Modified = true
	}
	return ok
}

// baseline records the untouched document before the first edit of a tab
// with an empty history, so that edit can be undone.
func (e *Editor) baseline(t *Tab) {
	if t.History.Len() == 0 {
		t.History.Commit(t.State())
	}
}

func (e *Editor) commit(t *Tab) {
	t.History.Commit(t.State())
	t.Modified = true
}
