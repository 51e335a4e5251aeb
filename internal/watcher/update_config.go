package watcher

import (
	"github.com/raoulx24/timewarp/internal/config"
)

// UpdateConfig applies reloaded timing settings. A method change takes effect
// the next time Start is called.
func (w *Watcher) UpdateConfig(cfg config.ReloadConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.interval = cfg.PollInterval
	w.mode = cfg.Method
	w.debounce = cfg.DebounceWindow
	w.stability = cfg.StabilityWindow
}
