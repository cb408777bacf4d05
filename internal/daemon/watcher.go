package daemon

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

	"github.com/voyahchat/sitegen/internal/logfields"
)

// Watcher monitors the content tree and fires onChange after a debounce
// window so editor save bursts trigger a single rebuild.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func()
	watcher  *fsnotify.Watcher
	stopChan chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher over the content directory.
func NewWatcher(root string, debounce time.Duration, onChange func()) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve content dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	return &Watcher{
		root:     absRoot,
		debounce: debounce,
		onChange: onChange,
		watcher:  watcher,
		stopChan: make(chan struct{}),
	}, nil
}

// Start registers the content tree recursively and begins processing
// events.
func (w *Watcher) Start(ctx context.Context) error {
	if st, err := os.Stat(w.root); err != nil || !st.IsDir() {
		_ = w.watcher.Close()
		return fmt.Errorf("content dir not found or not a directory: %s", w.root)
	}
	if err := addDirsRecursive(w.watcher, w.root); err != nil {
		_ = w.watcher.Close()
		return err
	}

	slog.Info("Watching content tree", logfields.Path(w.root), slog.Duration("debounce", w.debounce))
	go w.loop(ctx)
	return nil
}

// Stop ends event processing and closes the underlying watcher.
func (w *Watcher) Stop() {
	select {
	case <-w.stopChan:
	default:
		close(w.stopChan)
	}

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		slog.Warn("Error closing file watcher", logfields.Error(err))
	}
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Content watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	// New subdirectories must be registered before files land in them.
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(w.watcher, ev.Name)
		}
	}
	slog.Debug("Content change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger()
}

// trigger restarts the debounce timer; onChange fires once the tree has
// been quiet for the full window.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

// addDirsRecursive registers root and every non-hidden subdirectory.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent reports events that must not trigger rebuilds: hidden
// files and editor temp/swap artifacts.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	if base == "Thumbs.db" {
		return true
	}
	return false
}
