// Package watch re-runs an action whenever one of a fixed set of files changes.
package watch

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tailcfg/cli/internal/output"
)

// DefaultDebounce is the quiet period after the last event before the
// action runs.
const DefaultDebounce = 300 * time.Millisecond

// Action is invoked after a burst of changes. changed lists the watched files
// touched during the burst.
type Action func(ctx context.Context, changed []string) error

// Watcher watches files through their parent directories, so editors that
// save by renaming a temporary file are still noticed.
type Watcher struct {
	files    map[string]bool
	dirs     []string
	debounce time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a watcher for paths.
func New(paths []string, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	w := &Watcher{files: make(map[string]bool, len(paths)), debounce: DefaultDebounce}
	seenDirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.files[abs] = true
		if dir := filepath.Dir(abs); !seenDirs[dir] {
			seenDirs[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run blocks until ctx is cancelled, calling action once per burst of
// changes. Action errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, action Action) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	output.Debug("watching fragments", "files", len(w.files), "dirs", w.dirs, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := map[string]bool{}
	for {
		select {
		case <-ctx.Done():
			output.Debug("watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			output.Debug("fragment changed", "path", event.Name, "op", event.Op.String())
			pending[filepath.Clean(event.Name)] = true
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			output.Warn("watcher error", "err", err)

		case <-timer.C:
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			if err := action(ctx, changed); err != nil {
				output.Error("re-resolution failed", "err", err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}
