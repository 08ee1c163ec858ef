package domain

import "time"

// TabRecord is the persisted form of an open tab.
type TabRecord struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Position int              `json:"position"`
	Elements []*Element       `json:"elements"`
	Canvas   CanvasProperties `json:"canvas"`
	Selected Selection        `json:"selectedElement"`
	Modified bool             `json:"isModified"`
	FilePath string           `json:"filePath"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// HistoryRecord is a tab's persisted undo stack.
type HistoryRecord struct {
	TabID  string         `json:"tabId"`
	States []HistoryState `json:"states"`
	Index  int            `json:"index"`
}

type TabStore interface {
	ReplaceTabs(tabs []TabRecord) error
	ListTabs() ([]TabRecord, error)
	DeleteTab(id string) error
}

type HistoryStore interface {
	SaveHistory(tabID string, states []HistoryState, index int) error
	LoadHistory(tabID string) (*HistoryRecord, error)
	ClearTab(tabID string) error
}

type SettingsStore interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}
