// Package watcher monitors the configuration file and hot-reloads it.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/raoulx24/timewarp/internal/config"
	"github.com/raoulx24/timewarp/internal/fsprobe"
	"github.com/raoulx24/timewarp/internal/logging"
)

// ReloadFunc receives every successfully loaded configuration.
type ReloadFunc func(cfg *config.Config)

// LoadFunc reads and validates the configuration at path.
type LoadFunc func(path string) (*config.Config, error)

// Watcher observes the configuration file and calls the reload callback when
// it changes and still parses.
type Watcher struct {
	mu sync.RWMutex

	path      string
	interval  time.Duration
	mode      string
	debounce  time.Duration
	stability time.Duration

	log logging.Logger

	lastModTime time.Time

	load     LoadFunc
	onReload ReloadFunc
}

// New creates a watcher for the configuration file at path. The file's
// current state counts as already loaded.
func New(path string, cfg config.ReloadConfig, log logging.Logger, onReload ReloadFunc) *Watcher {
	w := &Watcher{
		path:      path,
		interval:  cfg.PollInterval,
		mode:      cfg.Method,
		debounce:  cfg.DebounceWindow,
		stability: cfg.StabilityWindow,
		log:       log,
		load:      config.Load,
		onReload:  onReload,
	}
	if info, err := os.Stat(path); err == nil {
		w.lastModTime = info.ModTime()
	}
	return w
}

// WithLoader replaces config.Load, e.g. to layer command-line overrides on
// top of the file.
func (w *Watcher) WithLoader(load LoadFunc) *Watcher {
	w.load = load
	return w
}

// Start chooses the watching strategy from the configured method and blocks
// until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.RLock()
	mode := w.mode
	dir := filepath.Dir(w.path)
	w.mu.RUnlock()

	w.log.Info("watching config", "path", w.path, "method", mode)

	switch mode {
	case "fsnotify":
		return w.StartFsNotify(ctx)

	case "poll":
		w.StartPolling(ctx)
		return nil

	case "", "auto":
		res := fsprobe.Probe(dir, fsprobe.DefaultTimeout)
		if res.FsnotifySupported {
			return w.StartFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled, polling config", "reason", res.Reason)
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown reload method %q", mode)
	}
}
