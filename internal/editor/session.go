package editor

import (
	"fmt"

	"cardeditor/internal/domain"
	"cardeditor/internal/history"
)

// Records exports every tab and its history for persistence, together with
// the active tab id.
func (e *Editor) Records() ([]domain.TabRecord, []domain.HistoryRecord, string) {
	tabs := e.ws.Tabs()
	recs := make([]domain.TabRecord, len(tabs))
	hists := make([]domain.HistoryRecord, len(tabs))
	for i, t := range tabs {
		recs[i] = domain.TabRecord{
			ID:       t.ID,
			Name:     t.Name,
			Position: i,
			Elements: t.Elements,
			Canvas:   t.Canvas.Clone(),
			Selected: t.Selected,
			Modified: t.Modified,
			FilePath: t.FilePath,
		}
		hists[i] = domain.HistoryRecord{
			TabID:  t.ID,
			States: t.History.States(),
			Index:  t.History.Index(),
		}
	}
	return recs, hists, e.ws.active
}

// RestoreSession replaces the open tabs with saved ones. Histories are
// matched by tab id; tabs without one start with an empty history.
func (e *Editor) RestoreSession(recs []domain.TabRecord, hists []domain.HistoryRecord, active string) error {
	byTab := make(map[string]domain.HistoryRecord, len(hists))
	for _, h := range hists {
		byTab[h.TabID] = h
	}
	tabs := make([]*Tab, 0, len(recs))
	for _, r := range recs {
		h := history.New(e.ws.maxHistory)
		if rec, ok := byTab[r.ID]; ok && len(rec.States) > 0 {
			if err := h.Restore(rec.States, rec.Index); err != nil {
				return fmt.Errorf("tab %s: %w", r.ID, err)
			}
		}
		tabs = append(tabs, &Tab{
			ID:       r.ID,
			Name:     r.Name,
			Elements: r.Elements,
			Canvas:   r.Canvas.Clone(),
			Selected: r.Selected,
			History:  h,
			Modified: r.Modified,
			FilePath: r.FilePath,
		})
	}
	if err := e.ws.Restore(tabs, active); err != nil {
		return err
	}
	e.log.Info("session restored", "tabs", len(tabs), "active", e.ws.active)
	return nil
}

// MarkSaved records that tab id was written to path.
func (e *Editor) MarkSaved(id, path string) error {
	t, ok := e.ws.Tab(id)
	if !ok {
		return fmt.Errorf("tab %s: %w", id, domain.ErrNotFound)
	}
	t.Modified = false
	t.FilePath = path
	return nil
}
