package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch signals on the returned channel whenever the journal at path is
// written, created or replaced. Signals coalesce: a burst of writes yields
// at least one value. The channel is closed when ctx is done. Watcher
// errors are reported to log; a nil log discards them.
//
// The directory is watched rather than the file so a Compact, which
// renames a new journal into place, keeps being observed.
func Watch(ctx context.Context, path string, log *slog.Logger) (<-chan struct{}, error) {
	log = orDiscard(log)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: mkdir %q: %w", dir, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("store: watch %q: %w", dir, err)
	}

	target := filepath.Clean(path)
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					select {
					case out <- struct{}{}:
					default:
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("store: watch error", "path", path, "err", err)
			}
		}
	}()
	return out, nil
}
