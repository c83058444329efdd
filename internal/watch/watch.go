package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 500 * time.Millisecond

// Watcher calls OnChange after source files in the watched directories
// change. Bursts of events within Debounce collapse into one call, and calls
// never overlap.
type Watcher struct {
	Dirs     []string
	Ext      string // only names with this extension trigger, case-insensitive
	Debounce time.Duration
	OnChange func(ctx context.Context) error

	mu    sync.Mutex
	timer *time.Timer
	run   sync.Mutex
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	if w.OnChange == nil {
		return errors.New("watch: OnChange not set")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for _, d := range w.Dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
		slog.With("dir", d).Debug("watching")
	}
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(ev) {
				continue
			}
			slog.With("file", ev.Name, "op", ev.Op.String()).Debug("file event")
			w.schedule(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			slog.With("error", err).Error("watcher error")
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return w.Ext == "" || strings.EqualFold(filepath.Ext(ev.Name), w.Ext)
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	d := w.Debounce
	if d <= 0 {
		d = DefaultDebounce
	}
	w.timer = time.AfterFunc(d, func() {
		if ctx.Err() != nil {
			return
		}
		w.run.Lock()
		defer w.run.Unlock()
		slog.Info("source changes detected, regenerating")
		if err := w.OnChange(ctx); err != nil {
			slog.With("error", err).Error("regeneration failed")
		}
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
