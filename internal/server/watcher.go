package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls rebuild after changes under a directory settle.
type Watcher struct {
	dir      string
	debounce time.Duration
	rebuild  func(context.Context) error
}

// NewWatcher creates a watcher for dir. Bursts of events closer together
// than debounce trigger a single rebuild.
func NewWatcher(dir string, debounce time.Duration, rebuild func(context.Context) error) *Watcher {
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		rebuild:  rebuild,
	}
}

// Run watches until ctx is done. Rebuilds run on the watcher goroutine, so
// they never overlap; rebuild errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := addTree(fw, w.dir); err != nil {
		return err
	}
	slog.Info("watching for changes", "dir", w.dir)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(fw, ev.Name); err != nil {
						slog.Warn("failed to watch new directory", "dir", ev.Name, "error", err)
					}
				}
			}
			slog.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			pending = time.After(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)

		case <-pending:
			pending = nil
			if err := w.rebuild(ctx); err != nil {
				slog.Error("rebuild failed", "error", err)
			}
		}
	}
}

func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
