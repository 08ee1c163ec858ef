package app

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"cardeditor/internal/crd"
	"cardeditor/internal/editor"
)

// ============================================================
// Files
// ============================================================

var crdFilters = []wailsRuntime.FileFilter{
	{DisplayName: "Card Documents (*.crd)", Pattern: "*" + crd.Extension},
}

// OpenDocument shows a file picker and opens the chosen .crd file in a new
// tab. It returns a zero TabInfo when the user cancels.
func (a *App) OpenDocument() (editor.TabInfo, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title:            "Open Card",
		DefaultDirectory: a.cfg.DataDir,
		Filters:          crdFilters,
	})
	if err != nil || path == "" {
		return editor.TabInfo{}, err
	}
	return a.files.Open(a.ctx, path)
}

// OpenDocumentPath opens a known path, e.g. after a file:changed event.
func (a *App) OpenDocumentPath(path string) (editor.TabInfo, error) {
	return a.files.Open(a.ctx, path)
}

// SaveDocument writes the active tab to its file, asking for a location
// the first time.
func (a *App) SaveDocument() (string, error) {
	if a.editor.Document().FilePath == "" {
		return a.SaveDocumentAs()
	}
	return a.files.Save(a.ctx)
}

// SaveDocumentAs asks for a location and writes the active tab there. It
// returns "" when the user cancels.
func (a *App) SaveDocumentAs() (string, error) {
	path, err := wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:            "Save Card",
		DefaultDirectory: a.cfg.DataDir,
		DefaultFilename:  a.files.SuggestFileName(),
		Filters:          crdFilters,
	})
	if err != nil || path == "" {
		return "", err
	}
	return a.files.SaveAs(a.ctx, path)
}

// ExportDocument returns the active tab as .crd JSON without saving it.
func (a *App) ExportDocument() (string, error) {
	f, _ := a.editor.Export()
	data, err := crd.Encode(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ImportDocument opens .crd JSON (e.g. pasted or dropped) in a new tab.
func (a *App) ImportDocument(data string) (editor.TabInfo, error) {
	return a.editor.Load(a.ctx, []byte(data))
}

// SaveSession persists all tabs now instead of waiting for autosave.
func (a *App) SaveSession() error {
	return a.session.Save(a.ctx)
}
