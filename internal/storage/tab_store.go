package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"cardeditor/internal/domain"
)

// TabStore implements domain.TabStore using SQLite.
type TabStore struct {
	db *DB
}

func NewTabStore(db *DB) *TabStore {
	return &TabStore{db: db}
}

// ReplaceTabs atomically replaces the saved tab set. History rows of tabs
// that are no longer present are removed too.
func (s *TabStore) ReplaceTabs(tabs []domain.TabRecord) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	keep := make(map[string]struct{}, len(tabs))
	for _, t := range tabs {
		keep[t.ID] = struct{}{}
	}
	rows, err := tx.Query(`SELECT id FROM tabs`)
	if err != nil {
		return fmt.Errorf("list tabs: %w", err)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan tab id: %w", err)
		}
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}
	rows.Close()

	for _, id := range stale {
		if err := deleteTab(tx, id); err != nil {
			return err
		}
	}

	now := time.Now()
	for i, t := range tabs {
		elements, canvas, err := encodeDocument(t.Elements, t.Canvas)
		if err != nil {
			return fmt.Errorf("encode tab %s: %w", t.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO tabs (id, name, position, elements_json, canvas_json, selected, modified, file_path, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   name = excluded.name, position = excluded.position,
			   elements_json = excluded.elements_json, canvas_json = excluded.canvas_json,
			   selected = excluded.selected, modified = excluded.modified,
			   file_path = excluded.file_path, updated_at = excluded.updated_at`,
			t.ID, t.Name, i, elements, canvas, string(t.Selected), t.Modified, t.FilePath, now, now,
		)
		if err != nil {
			return fmt.Errorf("upsert tab %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// ListTabs returns the saved tabs in display order.
func (s *TabStore) ListTabs() ([]domain.TabRecord, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, position, elements_json, canvas_json, selected, modified, file_path, updated_at
		 FROM tabs ORDER BY position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}
	defer rows.Close()

	var tabs []domain.TabRecord
	for rows.Next() {
		var (
			t                domain.TabRecord
			elements, canvas string
			selected         string
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Position, &elements, &canvas, &selected, &t.Modified, &t.FilePath, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tab: %w", err)
		}
		if err := json.Unmarshal([]byte(elements), &t.Elements); err != nil {
			return nil, fmt.Errorf("decode elements of tab %s: %w", t.ID, err)
		}
		if err := json.Unmarshal([]byte(canvas), &t.Canvas); err != nil {
			return nil, fmt.Errorf("decode canvas of tab %s: %w", t.ID, err)
		}
		if len(t.Elements) == 0 {
			t.Elements = nil
		}
		t.Selected = domain.Selection(selected)
		tabs = append(tabs, t)
	}
	return tabs, rows.Err()
}

func (s *TabStore) DeleteTab(id string) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	if err := deleteTab(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func deleteTab(tx execer, id string) error {
	if _, err := tx.Exec(`DELETE FROM history_cursor WHERE tab_id = ?`, id); err != nil {
		return fmt.Errorf("delete history cursor: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM history_states WHERE tab_id = ?`, id); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM tabs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete tab: %w", err)
	}
	return nil
}

func encodeDocument(elements []*domain.Element, canvas domain.CanvasProperties) (string, string, error) {
	if elements == nil {
		elements = []*domain.Element{}
	}
	e, err := json.Marshal(elements)
	if err != nil {
		return "", "", err
	}
	c, err := json.Marshal(canvas)
	if err != nil {
		return "", "", err
	}
	return string(e), string(c), nil
}
