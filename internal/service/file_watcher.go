package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventFileChanged is emitted when an opened .crd file changes on disk.
const EventFileChanged = "file:changed"

// FileChangedEvent is the payload of EventFileChanged.
type FileChangedEvent struct {
	TabID string `json:"tabId"`
	Path  string `json:"path"`
}

// selfWriteWindow is how long after our own write events for a file are
// ignored.
const selfWriteWindow = time.Second

// FileWatcher reports external modifications of documents that are open in
// a tab.
type FileWatcher struct {
	ctx     context.Context
	watcher *fsnotify.Watcher
	emitter EventEmitter
	log     *slog.Logger

	mu       sync.RWMutex
	watching map[string]string    // tab id -> abs path
	dirs     map[string]int       // watched dir -> tabs watching a file in it
	ignore   map[string]time.Time // abs path -> ignore events until
}

// NewFileWatcher starts a watcher whose events are emitted on ctx.
func NewFileWatcher(ctx context.Context, emitter EventEmitter, log *slog.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	fw := &FileWatcher{
		ctx:      ctx,
		watcher:  w,
		emitter:  emitter,
		log:      log.With("component", "file_watcher"),
		watching: make(map[string]string),
		dirs:     make(map[string]int),
		ignore:   make(map[string]time.Time),
	}
	go fw.watchLoop()
	return fw, nil
}

// Watch starts reporting changes of path for tabID. A tab watches at most
// one file; several tabs may watch the same file.
func (w *FileWatcher) Watch(tabID, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.Unwatch(tabID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.watching[tabID] = abs
	// fsnotify watches directories; editors often replace files by rename.
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			delete(w.watching, tabID)
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	return nil
}

// Unwatch stops reporting changes for tabID.
func (w *FileWatcher) Unwatch(tabID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	path, ok := w.watching[tabID]
	if !ok {
		return
	}
	delete(w.watching, tabID)
	dir := filepath.Dir(path)
	if w.dirs[dir]--; w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.watcher.Remove(dir)
	}
}

// WatchedDirs lists the directories currently watched.
func (w *FileWatcher) WatchedDirs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.dirs))
	for dir := range w.dirs {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}

// Ignore suppresses events for path caused by a write we are about to do.
func (w *FileWatcher) Ignore(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.ignore[abs] = time.Now().Add(selfWriteWindow)
	w.mu.Unlock()
}

// Close stops the watcher.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}

func (w *FileWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, _ := filepath.Abs(event.Name)
			for _, tabID := range w.changed(abs) {
				w.log.Info("document changed on disk", "tab", tabID, "path", abs)
				if w.emitter != nil {
					w.emitter.Emit(w.ctx, EventFileChanged, FileChangedEvent{TabID: tabID, Path: abs})
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

// changed returns the tabs to notify about a change of abs.
func (w *FileWatcher) changed(abs string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if until, ok := w.ignore[abs]; ok {
		if time.Now().Before(until) {
			return nil
		}
		delete(w.ignore, abs)
	}
	var tabs []string
	for tabID, path := range w.watching {
		if path == abs {
			tabs = append(tabs, tabID)
		}
	}
	sort.Strings(tabs)
	return tabs
}
