package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"cardeditor/internal/domain"
	"cardeditor/internal/editor"
)

// ─────────────────────────────────────────────────────────────
// Session Service — persists open tabs between runs
// ─────────────────────────────────────────────────────────────

const (
	settingActiveTab = "active_tab"
	jobAutosave      = "autosave"

	// EventSessionSaved is emitted after an autosave wrote changes.
	EventSessionSaved = "session:saved"
)

// SessionService saves the workspace (tabs, histories, active tab) to the
// stores and restores it on startup.
type SessionService struct {
	editor   *EditorService
	tabs     domain.TabStore
	history  domain.HistoryStore
	settings domain.SettingsStore
	emitter  EventEmitter
	log      *slog.Logger

	mu        sync.Mutex
	saved     uint64 // editor version at the last save
	cronSched *cron.Cron
	jobs      jobGuard
}

// NewSessionService creates a SessionService.
func NewSessionService(
	ed *EditorService,
	tabs domain.TabStore,
	history domain.HistoryStore,
	settings domain.SettingsStore,
	emitter EventEmitter,
	log *slog.Logger,
) *SessionService {
	if log == nil {
		log = slog.Default()
	}
	return &SessionService{
		editor:   ed,
		tabs:     tabs,
		history:  history,
		settings: settings,
		emitter:  emitter,
		log:      log.With("component", "session"),
	}
}

// Save writes the whole workspace.
func (s *SessionService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

func (s *SessionService) save(ctx context.Context) error {
	var (
		recs    []domain.TabRecord
		hists   []domain.HistoryRecord
		active  string
		version uint64
	)
	s.editor.View(func(e *editor.Editor) error {
		recs, hists, active = e.Records()
		version = s.editor.version
		return nil
	})

	if err := s.tabs.ReplaceTabs(recs); err != nil {
		return fmt.Errorf("save tabs: %w", err)
	}
	for _, h := range hists {
		if err := s.history.SaveHistory(h.TabID, h.States, h.Index); err != nil {
			return fmt.Errorf("save history of %s: %w", h.TabID, err)
		}
	}
	if err := s.settings.SetSetting(settingActiveTab, active); err != nil {
		return err
	}
	s.saved = version
	s.log.Debug("session saved", "tabs", len(recs), "version", version)
	return nil
}

// Restore loads the saved workspace into the editor. It reports false when
// nothing was saved yet.
func (s *SessionService) Restore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.tabs.ListTabs()
	if err != nil {
		return false, fmt.Errorf("list tabs: %w", err)
	}
	if len(recs) == 0 {
		return false, nil
	}
	hists := make([]domain.HistoryRecord, 0, len(recs))
	for _, r := range recs {
		h, err := s.history.LoadHistory(r.ID)
		if err != nil {
			// A broken history is not worth losing the document over.
			s.log.Warn("discarding unreadable history", "tab", r.ID, "error", err)
			continue
		}
		hists = append(hists, *h)
	}
	active, _, err := s.settings.GetSetting(settingActiveTab)
	if err != nil {
		return false, err
	}

	err = s.editor.Update(ctx, "session:restore", func(e *editor.Editor) error {
		return e.RestoreSession(recs, hists, active)
	})
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	s.saved = s.editor.Version()
	return true, nil
}

// StartAutosave saves the workspace on schedule (cron syntax, descriptors
// such as "@every 30s" included) whenever it changed since the last save.
func (s *SessionService) StartAutosave(ctx context.Context, schedule string) error {
	s.Stop()
	if schedule == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := s.autosave(ctx); err != nil {
			s.log.Error("autosave failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("autosave schedule %q: %w", schedule, err)
	}
	c.Start()

	s.mu.Lock()
	s.cronSched = c
	s.mu.Unlock()
	s.log.Info("autosave scheduled", "schedule", schedule)
	return nil
}

func (s *SessionService) autosave(ctx context.Context) error {
	// A slow disk can make ticks overlap; skip rather than pile up.
	if !s.jobs.TryLock(jobAutosave) {
		s.log.Debug("autosave still running, skipping tick")
		return nil
	}
	defer s.jobs.Unlock(jobAutosave)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editor.Version() == s.saved {
		return nil
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	if s.emitter != nil {
		s.emitter.Emit(ctx, EventSessionSaved, s.saved)
	}
	return nil
}

// Stop halts autosave and waits for a running save to finish.
func (s *SessionService) Stop() {
	s.mu.Lock()
	c := s.cronSched
	s.cronSched = nil
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
