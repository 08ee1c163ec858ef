package service

import (
	"fmt"
	"strconv"

	"cardeditor/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Window Size Persistence
// ─────────────────────────────────────────────────────────────
//
// Saves and restores the main window size between sessions as two rows of
// the settings store.

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowSettingsService persists window size between sessions.
type WindowSettingsService struct {
	store domain.SettingsStore
}

// NewWindowSettingsService creates a WindowSettingsService.
func NewWindowSettingsService(store domain.SettingsStore) *WindowSettingsService {
	return &WindowSettingsService{store: store}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	defaultWindowWidth  = 1280
	defaultWindowHeight = 800
	minWindowWidth      = 800
	minWindowHeight     = 600
)

// LoadWindowSize returns the saved window dimensions, or sensible defaults.
func (s *WindowSettingsService) LoadWindowSize() WindowSize {
	size := WindowSize{Width: defaultWindowWidth, Height: defaultWindowHeight}
	if s.store == nil {
		return size
	}
	if w := s.intSetting(settingWindowWidth); w >= minWindowWidth {
		size.Width = w
	}
	if h := s.intSetting(settingWindowHeight); h >= minWindowHeight {
		size.Height = h
	}
	return size
}

// SaveWindowSize persists the current window dimensions.
func (s *WindowSettingsService) SaveWindowSize(width, height int) error {
	if s.store == nil {
		return fmt.Errorf("window settings: no store")
	}
	if err := s.store.SetSetting(settingWindowWidth, strconv.Itoa(width)); err != nil {
		return err
	}
	return s.store.SetSetting(settingWindowHeight, strconv.Itoa(height))
}

func (s *WindowSettingsService) intSetting(key string) int {
	v, ok, err := s.store.GetSetting(key)
	if err != nil || !ok {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}
