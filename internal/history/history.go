// Package history keeps the linear undo/redo stack of one tab.
package history

import (
	"fmt"

	"cardeditor/internal/domain"
	"cardeditor/internal/tree"
)

// DefaultMax is the number of snapshots kept when no cap is configured.
const DefaultMax = 100

// History is an ordered list of snapshots plus a pointer to the current one.
// index is -1 while the list is empty and otherwise satisfies
// 0 <= index < len(states).
type History struct {
	states []domain.HistoryState
	index  int
	max    int
}

// New returns an empty history that keeps at most max snapshots.
// max <= 0 means unbounded.
func New(max int) *History {
	return &History{index: -1, max: max}
}

// Commit records state as the newest snapshot. Every snapshot after the
// current pointer is discarded first.
func (h *History) Commit(state domain.HistoryState) {
	h.states = append(h.states[:h.index+1:h.index+1], snapshot(state))
	if h.max > 0 && len(h.states) > h.max {
		drop := len(h.states) - h.max
		h.states = append([]domain.HistoryState(nil), h.states[drop:]...)
	}
	h.index = len(h.states) - 1
}

// Undo steps back one snapshot and returns a copy of it. It reports false,
// and changes nothing, when there is no earlier snapshot.
func (h *History) Undo() (domain.HistoryState, bool) {
	if h.index <= 0 {
		return domain.HistoryState{}, false
	}
	h.index--
	return snapshot(h.states[h.index]), true
}

// Redo steps forward one snapshot and returns a copy of it. It reports false
// when the pointer is already at the newest snapshot.
func (h *History) Redo() (domain.HistoryState, bool) {
	if h.index >= len(h.states)-1 {
		return domain.HistoryState{}, false
	}
	h.index++
	return snapshot(h.states[h.index]), true
}

func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.states)-1 }

func (h *History) Index() int { return h.index }
func (h *History) Len() int   { return len(h.states) }
func (h *History) Max() int   { return h.max }

// Current returns a copy of the snapshot under the pointer.
func (h *History) Current() (domain.HistoryState, bool) {
	if h.index < 0 {
		return domain.HistoryState{}, false
	}
	return snapshot(h.states[h.index]), true
}

// States returns copies of all snapshots, oldest first.
func (h *History) States() []domain.HistoryState {
	out := make([]domain.HistoryState, len(h.states))
	for i, s := range h.states {
		out[i] = snapshot(s)
	}
	return out
}

// Restore replaces the history with previously saved snapshots.
func (h *History) Restore(states []domain.HistoryState, index int) error {
	if len(states) == 0 {
		if index != -1 {
			return fmt.Errorf("restore history: index %d with no states", index)
		}
		h.states, h.index = nil, -1
		return nil
	}
	if index < 0 || index >= len(states) {
		return fmt.Errorf("restore history: index %d out of range [0,%d)", index, len(states))
	}
	restored := make([]domain.HistoryState, len(states))
	for i, s := range states {
		restored[i] = snapshot(s)
	}
	if h.max > 0 && len(restored) > h.max {
		drop := len(restored) - h.max
		restored = restored[drop:]
		index -= drop
		if index < 0 {
			index = 0
		}
	}
	h.states, h.index = restored, index
	return nil
}

// Clear empties the history.
func (h *History) Clear() {
	h.states, h.index = nil, -1
}

func snapshot(s domain.HistoryState) domain.HistoryState {
	return domain.HistoryState{
		Elements: tree.DeepCopy(s.Elements),
		Canvas:   s.Canvas.Clone(),
		Selected: s.Selected,
	}
}
