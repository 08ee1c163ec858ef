package domain

// SelectionCanvas selects the root container rather than an element.
const SelectionCanvas = "canvas"

// Selection is the id of the selected element, SelectionCanvas, or "" when
// nothing is selected.
type Selection string

func (s Selection) IsNone() bool   { return s == "" }
func (s Selection) IsCanvas() bool { return s == SelectionCanvas }

// ElementID returns the selected element id, or "" when the selection is
// empty or the canvas.
func (s Selection) ElementID() string {
	if s.IsCanvas() {
		return ""
	}
	return string(s)
}

// HistoryState is one undo/redo snapshot of a tab.
type HistoryState struct {
	Elements []*Element       `json:"elements"`
	Canvas   CanvasProperties `json:"canvasProperties"`
	Selected Selection        `json:"selectedElement"`
}
