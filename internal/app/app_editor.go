package app

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"cardeditor/internal/domain"
	"cardeditor/internal/editor"
	"cardeditor/internal/service"
	"cardeditor/internal/tree"
)

// ============================================================
// Tabs
// ============================================================

func (a *App) ListTabs() []editor.TabInfo {
	return a.editor.Tabs()
}

func (a *App) CreateTab() (editor.TabInfo, error) {
	return a.editor.CreateTab(a.ctx)
}

// CloseTab closes a tab, asking the user first when it has unsaved changes.
func (a *App) CloseTab(id string) error {
	if err := a.editor.CloseTab(a.ctx, id, a.confirmer("Unsaved changes", "Close")); err != nil {
		return err
	}
	a.files.Forget(id)
	return nil
}

func (a *App) RenameTab(id, name string) error {
	return a.editor.RenameTab(a.ctx, id, name)
}

func (a *App) SwitchTab(id string) error {
	return a.editor.SwitchTab(a.ctx, id)
}

// GetDocument returns the active tab for rendering.
func (a *App) GetDocument() service.Document {
	return a.editor.Document()
}

// ============================================================
// Elements
// ============================================================

func (a *App) AddElement(elementType, parentID string) (*domain.Element, error) {
	return a.editor.AddElement(a.ctx, domain.ElementType(elementType), parentID)
}

func (a *App) MoveElement(id, newParentID string) error {
	return a.editor.MoveElement(a.ctx, id, newParentID)
}

// DeleteElement asks before removing an element and its children.
func (a *App) DeleteElement(id string) error {
	return a.editor.DeleteElement(a.ctx, id, a.confirmer("Delete element", "Delete"))
}

// ResizeElement drags a resize handle ("n", "s", "e", "w", "ne", "nw", "se",
// "sw") by dx, dy pixels.
func (a *App) ResizeElement(id, direction string, dx, dy int) error {
	return a.editor.ResizeElement(a.ctx, id, direction, dx, dy)
}

func (a *App) UpdateProperty(id, key, value string) error {
	return a.editor.UpdateProperty(a.ctx, id, key, value)
}

func (a *App) UpdateVariable(id, name string) error {
	return a.editor.UpdateVariable(a.ctx, id, name)
}

func (a *App) ToggleHidden(id string) error {
	return a.editor.ToggleHidden(a.ctx, id)
}

func (a *App) RenameElement(id, name string) error {
	return a.editor.RenameElement(a.ctx, id, name)
}

func (a *App) UpdateCanvasProperty(key, value string) error {
	return a.editor.UpdateCanvasProperty(a.ctx, key, value)
}

// SelectElement selects an element, "canvas", or nothing for "".
func (a *App) SelectElement(selection string) error {
	return a.editor.Select(a.ctx, domain.Selection(selection))
}

// ============================================================
// Clipboard & history
// ============================================================

func (a *App) CopyElement(id string) error {
	return a.editor.Copy(id)
}

// PasteElement returns the new element's id, or "" when nothing was copied.
func (a *App) PasteElement(targetID string) (string, error) {
	return a.editor.Paste(a.ctx, targetID)
}

// CommitHistory records the current state, e.g. when a property input loses
// focus.
func (a *App) CommitHistory() error {
	return a.editor.Commit(a.ctx)
}

func (a *App) Undo() (bool, error) {
	return a.editor.Undo(a.ctx)
}

func (a *App) Redo() (bool, error) {
	return a.editor.Redo(a.ctx)
}

// ============================================================
// Template bindings
// ============================================================

func (a *App) ListBindings() []tree.Binding {
	return a.editor.Bindings()
}

func (a *App) FillBindings(values map[string]string) (int, error) {
	return a.editor.FillBindings(a.ctx, values)
}

// ── confirm dialog ─────────────────────────────────────────

func (a *App) confirmer(title, accept string) editor.Confirmer {
	return editor.ConfirmFunc(func(message string) bool {
		res, err := wailsRuntime.MessageDialog(a.ctx, wailsRuntime.MessageDialogOptions{
			Type:          wailsRuntime.QuestionDialog,
			Title:         title,
			Message:       message,
			Buttons:       []string{accept, "Cancel"},
			DefaultButton: "Cancel",
			CancelButton:  "Cancel",
		})
		if err != nil {
			a.log.Warn("confirm dialog failed", "error", err)
			return false
		}
		// Linux and Windows ignore custom buttons and answer Yes/No.
		return res == accept || res == "Yes"
	})
}
