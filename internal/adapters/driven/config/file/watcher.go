package file

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/scholarstr/internal/logger"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a ConfigStore when its file changes and notifies callbacks.
type Watcher struct {
	store    *ConfigStore
	debounce time.Duration

	mu        sync.Mutex
	callbacks []func(*ConfigStore)
}

// NewWatcher creates a watcher for store.
func NewWatcher(store *ConfigStore, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{store: store, debounce: debounce}
}

// OnChange registers fn to run after every successful reload.
func (w *Watcher) OnChange(fn func(*ConfigStore)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Run watches until ctx is cancelled. The directory is watched rather than
// the file so that atomic rename-on-save is seen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.store.Path())
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	target := filepath.Clean(w.store.Path())
	logger.Debug("watching %s", target)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			w.reload()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.Load(); err != nil {
		logger.Warn("reloading %s: %v", w.store.Path(), err)
		return
	}
	logger.Info("reloaded %s", w.store.Path())

	w.mu.Lock()
	callbacks := append([]func(*ConfigStore){}, w.callbacks...)
	w.mu.Unlock()
	for _, fn := range callbacks {
		fn(w.store)
	}
}
