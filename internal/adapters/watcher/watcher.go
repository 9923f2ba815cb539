// Package watcher notifies the repository when local index documents change.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"go.trai.ch/obr/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultDebounceWindow is the quiet period before a change is reported.
const DefaultDebounceWindow = 100 * time.Millisecond

var _ ports.IndexWatcher = (*Watcher)(nil)

// Watcher implements ports.IndexWatcher with fsnotify. It watches the parent directories of
// the index files so that atomic replacements are seen, and reports a file only when its
// content digest changed.
type Watcher struct {
	logger ports.Logger
	window time.Duration

	mu     sync.Mutex
	hashes map[string]uint64
}

// New creates a Watcher using window as the debounce period.
func New(logger ports.Logger, window time.Duration) *Watcher {
	return &Watcher{
		logger: logger,
		window: window,
		hashes: make(map[string]uint64),
	}
}

// Watch blocks until ctx is done, calling onChange for every changed file in paths.
func (w *Watcher) Watch(ctx context.Context, paths []string, onChange func(path string)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	defer func() {
		_ = fsw.Close()
	}()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve watched path"), "path", p)
		}
		targets[abs] = true
		w.remember(abs)
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}

	deb := NewDebouncer(w.window, func(changed []string) {
		for _, p := range changed {
			if w.remember(p) {
				onChange(p)
			}
		}
	})
	defer deb.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				deb.Add(filepath.Clean(ev.Name))
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher: " + err.Error())
		}
	}
}

// remember stores the digest of path and reports whether it differs from the previous one.
// A missing file digests to zero.
func (w *Watcher) remember(path string) bool {
	var sum uint64
	//nolint:gosec // Path is one of the watched index files
	if data, err := os.ReadFile(path); err == nil {
		sum = xxhash.Sum64(data)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	prev, seen := w.hashes[path]
	w.hashes[path] = sum
	return !seen || prev != sum
}
