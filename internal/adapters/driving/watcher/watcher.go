// Package watcher reloads the served index when a build replaces the
// artifact files.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last artifact
// change before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Reloader swaps in the latest index.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher watches a data directory and calls Reload once the artifact
// files have settled.
type Watcher struct {
	dir      string
	files    map[string]struct{}
	reloader Reloader
	debounce time.Duration
	onReload func(error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithReloadHook registers a callback invoked after every reload attempt.
func WithReloadHook(fn func(error)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// New creates a watcher for the named files inside dir.
func New(dir string, files []string, reloader Reloader, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		files:    make(map[string]struct{}, len(files)),
		reloader: reloader,
		debounce: DefaultDebounce,
	}
	for _, f := range files {
		w.files[filepath.Base(f)] = struct{}{}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. The directory is created if it does
// not exist yet, so a watcher can be started before the first build.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	// Builds replace files by rename, so the directory is watched rather
	// than the files themselves.
	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	logger.Debug("Watching %s for index changes", w.dir)
	return w.loop(ctx, fsw.Events, fsw.Errors)
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !w.handleFsEvent(event) {
				continue
			}
			logger.Debug("Index artifact changed: %s", event)
			timer.Reset(w.debounce)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("Index watcher: %v", err)

		case <-timer.C:
			err := w.reloader.Reload(ctx)
			if err != nil {
				logger.Warn("Index reload failed, keeping current index: %v", err)
			}
			if w.onReload != nil {
				w.onReload(err)
			}
		}
	}
}

// handleFsEvent reports whether event replaces or rewrites one of the
// watched artifact files.
func (w *Watcher) handleFsEvent(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if _, ok := w.files[name]; !ok {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
