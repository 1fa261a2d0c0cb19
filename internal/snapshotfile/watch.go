package snapshotfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codalotl/listsync/internal/reconcile"
)

const defaultDebounce = 50 * time.Millisecond

// Watcher reloads a snapshot file whenever it changes.
type Watcher struct {
	Path     string
	Debounce time.Duration // Quiet period after a change before reloading. Zero means 50ms.
	Logger   *slog.Logger  // Optional.
}

// Watch loads the file, then reloads it after every change, until ctx is done. Each snapshot goes to onSnapshot and each load or watch error to onError; both are called
// from the goroutine running Watch. Watch returns an error only if watching cannot start.
//
// The file's directory is watched rather than the file itself, since editors often save by renaming a new file over the old one.
func (w *Watcher) Watch(ctx context.Context, onSnapshot func(reconcile.Snapshot[Item]), onError func(error)) error {
	path, err := filepath.Abs(w.Path)
	if err != nil {
		return err
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("snapshotfile: watch: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("snapshotfile: watch %s: %w", filepath.Dir(path), err)
	}
	logger.Debug("snapshotfile: watching", "path", path)

	load := func() {
		snap, err := Load(path)
		if err != nil {
			onError(err)
			return
		}
		onSnapshot(snap)
	}
	load()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			logger.Debug("snapshotfile: change", "op", ev.Op.String())
			fire = time.After(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			onError(fmt.Errorf("snapshotfile: watch: %w", err))
		case <-fire:
			fire = nil
			load()
		}
	}
}
