// Package watcher monitors the import directory for dropped record files.
//
// Files are imported once they settle: a write/create event starts a timer,
// and the file is only picked up when its size and mtime stop changing.
// Editors and network copies produce multiple events per file, so raw events
// cannot be trusted directly.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/campusgrid/timetable-server/internal/service"
)

// processedDir is the subdirectory imported files are moved into.
const processedDir = "processed"

// defaultSettleDelay is how long a file must stay unchanged before import.
const defaultSettleDelay = 500 * time.Millisecond

// pendingFile tracks a file that may still be changing.
type pendingFile struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// ImportWatcher watches a directory and imports settled JSON record files.
type ImportWatcher struct {
	logger      *slog.Logger
	service     *service.TimetableService
	watcher     *fsnotify.Watcher
	dir         string
	settleDelay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingFile

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a watcher over dir. The directory and its processed
// subdirectory are created if missing.
func New(dir string, svc *service.TimetableService, logger *slog.Logger) (*ImportWatcher, error) {
	if err := os.MkdirAll(filepath.Join(dir, processedDir), 0o750); err != nil {
		return nil, fmt.Errorf("create import directory: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &ImportWatcher{
		logger:      logger,
		service:     svc,
		watcher:     fsWatcher,
		dir:         dir,
		settleDelay: defaultSettleDelay,
		pending:     make(map[string]*pendingFile),
		done:        make(chan struct{}),
	}, nil
}

// Start processes watch events until the context is cancelled. Files already
// present in the directory are imported on startup.
func (w *ImportWatcher) Start(ctx context.Context) error {
	w.logger.Info("import watcher starting", "dir", w.dir)

	w.importExisting(ctx)

	w.wg.Add(1)
	go w.processEvents(ctx)

	<-ctx.Done()
	return nil
}

// Stop stops the watcher and releases resources.
func (w *ImportWatcher) Stop() error {
	close(w.done)

	w.mu.Lock()
	for _, pending := range w.pending {
		pending.timer.Stop()
	}
	clear(w.pending)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// importExisting imports files left in the directory from a previous run.
func (w *ImportWatcher) importExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("failed to read import directory", "dir", w.dir, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !isImportFile(entry.Name()) {
			continue
		}
		w.importFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

func (w *ImportWatcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *ImportWatcher) handleEvent(event fsnotify.Event) {
	if !isImportFile(event.Name) {
		return
	}

	if event.Op&fsnotify.Remove != 0 {
		w.cancelPending(event.Name)
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.startSettling(event.Name)
	}
}

// startSettling begins or restarts the settle timer for a file.
func (w *ImportWatcher) startSettling(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if pending, exists := w.pending[path]; exists {
		pending.timer.Stop()
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		return
	}
	if info.IsDir() {
		return
	}

	pending := &pendingFile{
		size:    info.Size(),
		modTime: info.ModTime(),
	}
	pending.timer = time.AfterFunc(w.settleDelay, func() {
		w.checkSettled(path)
	})
	w.pending[path] = pending
}

// checkSettled imports the file if it stopped changing, otherwise restarts
// the timer.
func (w *ImportWatcher) checkSettled(path string) {
	w.mu.Lock()

	pending, exists := w.pending[path]
	if !exists {
		w.mu.Unlock()
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		w.mu.Unlock()
		return
	}

	if info.Size() != pending.size || info.ModTime() != pending.modTime {
		pending.size = info.Size()
		pending.modTime = info.ModTime()
		pending.timer = time.AfterFunc(w.settleDelay, func() {
			w.checkSettled(path)
		})
		w.mu.Unlock()
		return
	}

	delete(w.pending, path)
	w.mu.Unlock()

	w.importFile(context.Background(), path)
}

func (w *ImportWatcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if pending, exists := w.pending[path]; exists {
		pending.timer.Stop()
		delete(w.pending, path)
	}
}

// isImportFile reports whether the path looks like a record drop.
func isImportFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
