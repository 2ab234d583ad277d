package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads an archetype catalog into a Store when its file changes.
// Invalid files are logged and the previous catalog stays active.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	store   *Store

	// OnReload is called after a successful reload (optional).
	OnReload func(Catalog)
}

// NewWatcher watches the directory of path. Editors often replace files by
// rename, so watching the file itself would lose track after the first save.
func NewWatcher(path string, store *Store) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{watcher: w, path: abs, store: store}, nil
}

// Run processes file events until ctx is cancelled.
// Bursts of events are coalesced: the reload runs once the file has been
// quiet for reloadDebounce, so a truncate-then-write save is read whole.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			debounce.Reset(reloadDebounce)
		case <-debounce.C:
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("archetype watcher error", "error", err)
		}
	}
}

// reload replaces the catalog from disk. A missing file keeps the previous catalog
// instead of falling back to DefaultCatalog.
func (w *Watcher) reload() {
	if _, err := os.Stat(w.path); err != nil {
		slog.Warn("archetype file unavailable, keeping previous catalog", "path", w.path, "error", err)
		return
	}
	catalog, err := LoadCatalog(w.path)
	if err != nil {
		slog.Error("archetype reload failed, keeping previous catalog", "path", w.path, "error", err)
		return
	}
	w.store.Replace(catalog)
	slog.Info("archetypes reloaded", "path", w.path, "count", len(catalog), "version", w.store.Version())
	if w.OnReload != nil {
		w.OnReload(catalog)
	}
}
