package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cardeditor/internal/crd"
	"cardeditor/internal/editor"
)

// ─────────────────────────────────────────────────────────────
// File Service — .crd documents on disk
// ─────────────────────────────────────────────────────────────

// FileService opens and saves documents for the active tab.
type FileService struct {
	editor  *EditorService
	watcher *FileWatcher // nil disables change notifications
	dataDir string
	log     *slog.Logger
}

// NewFileService creates a FileService. Documents saved without an explicit
// path go to dataDir.
func NewFileService(ed *EditorService, watcher *FileWatcher, dataDir string, log *slog.Logger) *FileService {
	if log == nil {
		log = slog.Default()
	}
	return &FileService{editor: ed, watcher: watcher, dataDir: dataDir, log: log.With("component", "files")}
}

// Open reads a .crd file into a new tab.
func (s *FileService) Open(ctx context.Context, path string) (editor.TabInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return editor.TabInfo{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return editor.TabInfo{}, fmt.Errorf("read document: %w", err)
	}

	var info editor.TabInfo
	err = s.editor.Update(ctx, "file:open", func(e *editor.Editor) error {
		t, err := e.Load(data)
		if err != nil {
			return err
		}
		t.FilePath = abs
		info = TabInfoOf(e, t.ID)
		return nil
	})
	if err != nil {
		return editor.TabInfo{}, err
	}
	s.watch(info.ID, abs)
	return info, nil
}

// Save writes the active tab to the file it came from, or to a new file in
// the data directory when it has none. It returns the path written.
func (s *FileService) Save(ctx context.Context) (string, error) {
	return s.SaveAs(ctx, s.editor.Document().FilePath)
}

// SaveAs writes the active tab to path and marks it saved. An empty path
// uses the suggested file name inside the data directory; a missing
// extension is added.
func (s *FileService) SaveAs(ctx context.Context, path string) (string, error) {
	var tabID string
	err := s.editor.Update(ctx, "file:save", func(e *editor.Editor) error {
		t := e.Active()
		f, name := e.Workspace().ExportToFile()
		if path == "" {
			path = filepath.Join(s.dataDir, name)
		}
		if !strings.HasSuffix(path, crd.Extension) {
			path += crd.Extension
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		data, err := crd.Encode(f)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
		if s.watcher != nil {
			s.watcher.Ignore(abs)
		}
		if err := os.WriteFile(abs, data, 0644); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		path, tabID = abs, t.ID
		return e.MarkSaved(t.ID, abs)
	})
	if err != nil {
		return "", err
	}
	s.log.Info("document saved", "tab", tabID, "path", path)
	s.watch(tabID, path)
	return path, nil
}

// SuggestFileName is the default file name for the active tab.
func (s *FileService) SuggestFileName() string {
	_, name := s.editor.Export()
	return name
}

// WatchAll starts watching the files of every open tab, e.g. after a
// session restore.
func (s *FileService) WatchAll() {
	for _, t := range s.editor.Tabs() {
		if t.FilePath != "" {
			s.watch(t.ID, t.FilePath)
		}
	}
}

// Forget stops watching the file of a closed tab.
func (s *FileService) Forget(tabID string) {
	if s.watcher != nil {
		s.watcher.Unwatch(tabID)
	}
}

func (s *FileService) watch(tabID, path string) {
	if s.watcher == nil {
		return
	}
	if err := s.watcher.Watch(tabID, path); err != nil {
		s.log.Warn("cannot watch document", "path", path, "error", err)
	}
}
