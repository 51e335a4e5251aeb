package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// StartFsNotify triggers detect() when fsnotify reports changes to the
// config file. The parent directory is watched so editors that replace the
// file by rename are still seen.
func (w *Watcher) StartFsNotify(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	w.mu.RLock()
	dir := filepath.Dir(w.path)
	name := filepath.Base(w.path)
	debounce := w.debounce
	w.mu.RUnlock()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	resetCh := make(chan struct{}, 1)
	defer close(resetCh)

	go func() {
		var t *time.Timer
		for range resetCh {
			if t != nil {
				t.Stop()
			}
			t = time.AfterFunc(debounce, func() {
				defer func() {
					if r := recover(); r != nil {
						w.log.Error("detect panic", "panic", r)
					}
				}()
				w.detect()
			})
		}
		if t != nil {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				w.log.Error("events channel closed")
				return nil
			}

			w.log.Debug("event", "name", ev.Name, "op", ev.Op)

			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			select {
			case resetCh <- struct{}{}:
			default:
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("fsnotify error", "error", err)
		}
	}
}
