package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cardeditor/internal/domain"
)

// HistoryStore persists each tab's undo stack as one row per snapshot plus
// a cursor row holding the current index.
type HistoryStore struct {
	db        *DB
	maxStates int
}

// NewHistoryStore keeps at most maxStates snapshots per tab (0 = no limit).
func NewHistoryStore(db *DB, maxStates int) *HistoryStore {
	return &HistoryStore{db: db, maxStates: maxStates}
}

// SaveHistory replaces the stored history of a tab. When there are more
// states than the store keeps, the oldest are dropped and index shifted.
func (s *HistoryStore) SaveHistory(tabID string, states []domain.HistoryState, index int) error {
	if index < -1 || index >= len(states) || (len(states) > 0 && index < 0) {
		return fmt.Errorf("save history: index %d invalid for %d states", index, len(states))
	}
	states, index = s.prune(states, index)

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM history_states WHERE tab_id = ?`, tabID); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	now := time.Now()
	for i, st := range states {
		data, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("encode state %d: %w", i, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO history_states (tab_id, seq, state_json, created_at) VALUES (?, ?, ?, ?)`,
			tabID, i, string(data), now,
		); err != nil {
			return fmt.Errorf("insert state %d: %w", i, err)
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO history_cursor (tab_id, current_index) VALUES (?, ?)
		 ON CONFLICT(tab_id) DO UPDATE SET current_index = excluded.current_index`,
		tabID, index,
	); err != nil {
		return fmt.Errorf("update history cursor: %w", err)
	}
	return tx.Commit()
}

// LoadHistory returns the stored history of a tab; a tab without history
// yields an empty record with Index -1.
func (s *HistoryStore) LoadHistory(tabID string) (*domain.HistoryRecord, error) {
	rec := &domain.HistoryRecord{TabID: tabID, Index: -1}

	rows, err := s.db.Conn().Query(
		`SELECT state_json FROM history_states WHERE tab_id = ? ORDER BY seq ASC`, tabID,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		var st domain.HistoryState
		if err := json.Unmarshal([]byte(data), &st); err != nil {
			return nil, fmt.Errorf("decode state: %w", err)
		}
		if len(st.Elements) == 0 {
			st.Elements = nil
		}
		rec.States = append(rec.States, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(rec.States) == 0 {
		return rec, nil
	}

	err = s.db.Conn().QueryRow(
		`SELECT current_index FROM history_cursor WHERE tab_id = ?`, tabID,
	).Scan(&rec.Index)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		rec.Index = len(rec.States) - 1
	case err != nil:
		return nil, fmt.Errorf("load history cursor: %w", err)
	case rec.Index < 0 || rec.Index >= len(rec.States):
		rec.Index = len(rec.States) - 1 // fallback to newest
	}
	return rec, nil
}

// ClearTab removes all history of a tab.
func (s *HistoryStore) ClearTab(tabID string) error {
	_, _ = s.db.Conn().Exec(`DELETE FROM history_cursor WHERE tab_id = ?`, tabID)
	_, err := s.db.Conn().Exec(`DELETE FROM history_states WHERE tab_id = ?`, tabID)
	return err
}

func (s *HistoryStore) prune(states []domain.HistoryState, index int) ([]domain.HistoryState, int) {
	if s.maxStates <= 0 || len(states) <= s.maxStates {
		return states, index
	}
	drop := len(states) - s.maxStates
	index -= drop
	if index < 0 {
		index = 0
	}
	return states[drop:], index
}
