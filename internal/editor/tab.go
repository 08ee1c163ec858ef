package editor

import (
	"cardeditor/internal/domain"
	"cardeditor/internal/history"
	"cardeditor/internal/tree"
)

// Tab is one open document: its element forest, canvas, selection and
// undo history.
type Tab struct {
	ID       string
	Name     string
	Elements []*domain.Element
	Canvas   domain.CanvasProperties
	Selected domain.Selection
	History  *history.History
	Modified bool

	// FilePath is where the document was last opened from or saved to.
	FilePath string
}

func newTab(id, name string, maxHistory int) *Tab {
	return &Tab{
		ID:      id,
		Name:    name,
		Canvas:  domain.DefaultCanvasProperties(),
		History: history.New(maxHistory),
	}
}

// State captures the tab's document as a history snapshot.
func (t *Tab) State() domain.HistoryState {
	return domain.HistoryState{
		Elements: t.Elements,
		Canvas:   t.Canvas,
		Selected: t.Selected,
	}
}

func (t *Tab) restore(s domain.HistoryState) {
	t.Elements = s.Elements
	t.Canvas = s.Canvas
	t.Selected = s.Selected
}

// Find looks an element up in the tab's forest.
func (t *Tab) Find(id string) (*domain.Element, bool) {
	return tree.Find(t.Elements, id)
}

// TabInfo is the summary of a tab shown in the tab bar.
type TabInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Modified bool   `json:"isModified"`
	Active   bool   `json:"active"`
	Elements int    `json:"elements"`
	CanUndo  bool   `json:"canUndo"`
	CanRedo  bool   `json:"canRedo"`
	FilePath string `json:"filePath,omitempty"`
}

func (t *Tab) info(active bool) TabInfo {
	return TabInfo{
		ID:       t.ID,
		Name:     t.Name,
		Modified: t.Modified,
		Active:   active,
		Elements: tree.Count(t.Elements),
		CanUndo:  t.History.CanUndo(),
		CanRedo:  t.History.CanRedo(),
		FilePath: t.FilePath,
	}
}
