package app

import (
	"context"
	"fmt"
	"log/slog"

	"cardeditor/internal/config"
	"cardeditor/internal/editor"
	"cardeditor/internal/service"
	"cardeditor/internal/storage"
)

// stack is everything the GUI and the headless MCP server share: storage,
// the guarded editor and the services built on it.
type stack struct {
	cfg *config.Config
	log *slog.Logger

	db       *storage.DB
	editor   *service.EditorService
	session  *service.SessionService
	files    *service.FileService
	watcher  *service.FileWatcher // nil when file watching is off
	settings *storage.SettingsStore
}

// openStack opens the database, builds the services and restores the last
// session. Autosave starts when the config has a schedule.
func openStack(ctx context.Context, cfg *config.Config, emitter service.EventEmitter, log *slog.Logger) (*stack, error) {
	db, err := storage.New(cfg.DBPath, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	maxHistory := cfg.MaxHistory
	if maxHistory == 0 {
		maxHistory = -1 // keep everything
	}
	ed := service.NewEditorService(editor.New(editor.Options{
		MaxHistory: maxHistory,
		Logger:     log,
	}), emitter, log)

	s := &stack{
		cfg:      cfg,
		log:      log,
		db:       db,
		editor:   ed,
		settings: storage.NewSettingsStore(db),
	}
	s.session = service.NewSessionService(ed,
		storage.NewTabStore(db),
		storage.NewHistoryStore(db, cfg.MaxHistory),
		s.settings,
		emitter, log)

	if cfg.WatchFiles {
		w, err := service.NewFileWatcher(ctx, emitter, log)
		if err != nil {
			log.Warn("file watching disabled", "error", err)
		} else {
			s.watcher = w
		}
	}
	s.files = service.NewFileService(ed, s.watcher, cfg.DataDir, log)

	restored, err := s.session.Restore(ctx)
	if err != nil {
		// Start with a fresh workspace rather than refusing to open.
		log.Error("session restore failed", "error", err)
	}
	if restored {
		s.files.WatchAll()
		log.Info("session restored", "tabs", len(ed.Tabs()))
	}

	if err := s.session.StartAutosave(ctx, cfg.AutosaveSchedule); err != nil {
		s.close(ctx)
		return nil, err
	}
	return s, nil
}

// close stops autosave, writes the session one last time and releases
// resources.
func (s *stack) close(ctx context.Context) {
	s.session.Stop()
	if err := s.session.Save(ctx); err != nil {
		s.log.Error("final session save failed", "error", err)
	}
	if s.watcher != nil {
		s.watcher.Close()
	}
	s.db.Close()
}
