package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"cardeditor/internal/domain"
	"cardeditor/internal/editor"
	"cardeditor/internal/tree"
)

// ─────────────────────────────────────────────────────────────
// Editor Service — serialises access to the editing session
// ─────────────────────────────────────────────────────────────

// EventWorkspaceChanged is emitted after every successful mutation.
const EventWorkspaceChanged = "workspace:changed"

// errUnchanged is returned by Update callbacks that left the editor as it
// was; Update then neither bumps the version nor emits.
var errUnchanged = errors.New("editor unchanged")

// WorkspaceEvent is the payload of EventWorkspaceChanged.
type WorkspaceEvent struct {
	Action string `json:"action"`
	TabID  string `json:"tabId"`
}

// Document is a read-only view of the active tab.
type Document struct {
	TabID    string                  `json:"tabId"`
	Name     string                  `json:"name"`
	Elements []*domain.Element       `json:"elements"`
	Canvas   domain.CanvasProperties `json:"canvasProperties"`
	Selected domain.Selection        `json:"selectedElement"`
	Modified bool                    `json:"isModified"`
	CanUndo  bool                    `json:"canUndo"`
	CanRedo  bool                    `json:"canRedo"`
	FilePath string                  `json:"filePath"`
}

// EditorService guards an editor.Editor with a mutex so that Wails
// bindings, MCP tools and the autosave job can share it.
type EditorService struct {
	mu      sync.Mutex
	ed      *editor.Editor
	version uint64
	emitter EventEmitter
	log     *slog.Logger
}

// NewEditorService creates an EditorService.
func NewEditorService(ed *editor.Editor, emitter EventEmitter, log *slog.Logger) *EditorService {
	if log == nil {
		log = slog.Default()
	}
	return &EditorService{ed: ed, emitter: emitter, log: log}
}

// View runs fn with exclusive access and emits nothing.
func (s *EditorService) View(fn func(*editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ed)
}

// Update runs fn with exclusive access. On success the version is bumped
// and EventWorkspaceChanged emitted with action.
func (s *EditorService) Update(ctx context.Context, action string, fn func(*editor.Editor) error) error {
	s.mu.Lock()
	err := fn(s.ed)
	var tabID string
	if err == nil {
		s.version++
		tabID = s.ed.Active().ID
	}
	s.mu.Unlock()

	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		s.log.Debug("editor action failed", "action", action, "error", err)
		return err
	}
	if s.emitter != nil {
		s.emitter.Emit(ctx, EventWorkspaceChanged, WorkspaceEvent{Action: action, TabID: tabID})
	}
	return nil
}

// Version increases with every Update that changed the editor.
func (s *EditorService) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// ── Queries ───────────────────────────────────────────────

func (s *EditorService) Tabs() []editor.TabInfo {
	var out []editor.TabInfo
	s.View(func(e *editor.Editor) error {
		out = e.Workspace().List()
		return nil
	})
	return out
}

// Document returns the active tab. Element trees are never modified in
// place, so the returned forest can be read without holding the lock.
func (s *EditorService) Document() Document {
	var d Document
	s.View(func(e *editor.Editor) error {
		t := e.Active()
		d = Document{
			TabID:    t.ID,
			Name:     t.Name,
			Elements: t.Elements,
			Canvas:   t.Canvas.Clone(),
			Selected: t.Selected,
			Modified: t.Modified,
			CanUndo:  t.History.CanUndo(),
			CanRedo:  t.History.CanRedo(),
			FilePath: t.FilePath,
		}
		return nil
	})
	return d
}

// Export returns the active tab as a .crd document without marking it saved.
func (s *EditorService) Export() (*domain.CRDFile, string) {
	var (
		f    *domain.CRDFile
		name string
	)
	s.View(func(e *editor.Editor) error {
		f, name = e.Workspace().ExportToFile()
		return nil
	})
	return f, name
}

func (s *EditorService) Bindings() []tree.Binding {
	var out []tree.Binding
	s.View(func(e *editor.Editor) error {
		out = tree.Bindings(e.Active().Elements)
		return nil
	})
	return out
}

// ── Tabs ──────────────────────────────────────────────────

func (s *EditorService) CreateTab(ctx context.Context) (editor.TabInfo, error) {
	var info editor.TabInfo
	err := s.Update(ctx, "tab:create", func(e *editor.Editor) error {
		t := e.CreateTab()
		info = TabInfoOf(e, t.ID)
		return nil
	})
	return info, err
}

func (s *EditorService) CloseTab(ctx context.Context, id string, c editor.Confirmer) error {
	return s.Update(ctx, "tab:close", func(e *editor.Editor) error {
		return e.CloseTab(id, c)
	})
}

func (s *EditorService) RenameTab(ctx context.Context, id, name string) error {
	return s.Update(ctx, "tab:rename", func(e *editor.Editor) error {
		return e.RenameTab(id, name)
	})
}

func (s *EditorService) SwitchTab(ctx context.Context, id string) error {
	return s.Update(ctx, "tab:switch", func(e *editor.Editor) error {
		return e.SwitchTab(id)
	})
}

// Load opens a .crd document in a new tab.
func (s *EditorService) Load(ctx context.Context, data []byte) (editor.TabInfo, error) {
	var info editor.TabInfo
	err := s.Update(ctx, "tab:load", func(e *editor.Editor) error {
		t, err := e.Load(data)
		if err != nil {
			return err
		}
		info = TabInfoOf(e, t.ID)
		return nil
	})
	return info, err
}

// ── Elements ──────────────────────────────────────────────

func (s *EditorService) AddElement(ctx context.Context, typ domain.ElementType, parentID string) (*domain.Element, error) {
	var el *domain.Element
	err := s.Update(ctx, "element:add", func(e *editor.Editor) error {
		var err error
		el, err = e.AddElement(typ, parentID)
		return err
	})
	return el, err
}

func (s *EditorService) MoveElement(ctx context.Context, id, parentID string) error {
	return s.Update(ctx, "element:move", func(e *editor.Editor) error {
		return e.MoveElement(id, parentID)
	})
}

// DeleteElement removes an element once c confirms. c is consulted with the
// editor locked, so it must not call back into the service.
func (s *EditorService) DeleteElement(ctx context.Context, id string, c editor.Confirmer) error {
	return s.Update(ctx, "element:delete", func(e *editor.Editor) error {
		return e.DeleteElement(id, c)
	})
}

func (s *EditorService) UpdateProperty(ctx context.Context, id, key, value string) error {
	return s.Update(ctx, "element:property", func(e *editor.Editor) error {
		return e.UpdateProperty(id, key, value)
	})
}

func (s *EditorService) UpdateVariable(ctx context.Context, id, value string) error {
	return s.Update(ctx, "element:variable", func(e *editor.Editor) error {
		return e.UpdateVariable(id, value)
	})
}

func (s *EditorService) ToggleHidden(ctx context.Context, id string) error {
	return s.Update(ctx, "element:hidden", func(e *editor.Editor) error {
		return e.ToggleHidden(id)
	})
}

func (s *EditorService) ResizeElement(ctx context.Context, id, direction string, dx, dy int) error {
	return s.Update(ctx, "element:resize", func(e *editor.Editor) error {
		return e.ResizeElement(id, direction, dx, dy)
	})
}

func (s *EditorService) RenameElement(ctx context.Context, id, name string) error {
	return s.Update(ctx, "element:rename", func(e *editor.Editor) error {
		return e.RenameElement(id, name)
	})
}

func (s *EditorService) UpdateCanvasProperty(ctx context.Context, key, value string) error {
	return s.Update(ctx, "canvas:property", func(e *editor.Editor) error {
		e.UpdateCanvasProperty(key, value)
		return nil
	})
}

func (s *EditorService) FillBindings(ctx context.Context, values map[string]string) (int, error) {
	var n int
	err := s.Update(ctx, "bindings:fill", func(e *editor.Editor) error {
		n = e.FillBindings(values)
		return nil
	})
	return n, err
}

// ── Selection & clipboard ─────────────────────────────────

func (s *EditorService) Select(ctx context.Context, sel domain.Selection) error {
	return s.Update(ctx, "selection", func(e *editor.Editor) error {
		if !e.Select(sel) {
			return errUnchanged
		}
		return nil
	})
}

func (s *EditorService) Copy(id string) error {
	return s.View(func(e *editor.Editor) error {
		return e.Copy(id)
	})
}

// Paste returns the id of the pasted element, or "" for an empty clipboard.
func (s *EditorService) Paste(ctx context.Context, parentID string) (string, error) {
	var id string
	err := s.Update(ctx, "clipboard:paste", func(e *editor.Editor) error {
		var err error
		id, err = e.Paste(parentID)
		if err == nil && id == "" {
			return errUnchanged
		}
		return err
	})
	return id, err
}

// ── History ───────────────────────────────────────────────

func (s *EditorService) Commit(ctx context.Context) error {
	return s.Update(ctx, "history:commit", func(e *editor.Editor) error {
		e.Commit()
		return nil
	})
}

// Undo reports whether anything was undone.
func (s *EditorService) Undo(ctx context.Context) (bool, error) {
	var ok bool
	err := s.Update(ctx, "history:undo", func(e *editor.Editor) error {
		ok = e.Undo()
		return nil
	})
	return ok, err
}

func (s *EditorService) Redo(ctx context.Context) (bool, error) {
	var ok bool
	err := s.Update(ctx, "history:redo", func(e *editor.Editor) error {
		ok = e.Redo()
		return nil
	})
	return ok, err
}

// TabInfoOf summarises tab id; callers must hold the editor.
func TabInfoOf(e *editor.Editor, id string) editor.TabInfo {
	for _, info := range e.Workspace().List() {
		if info.ID == id {
			return info
		}
	}
	return editor.TabInfo{}
}
