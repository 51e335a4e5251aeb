package watcher

import (
	"os"
)

// detect reloads the configuration if the file changed since the last load.
// A file that fails to load keeps the previous configuration in effect.
func (w *Watcher) detect() {
	w.mu.RLock()
	path := w.path
	last := w.lastModTime
	load := w.load
	w.mu.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		w.log.Debug("config stat failed", "path", path, "error", err)
		return
	}

	mod := info.ModTime()
	if !mod.After(last) {
		return
	}

	if !w.isFileStable() {
		w.log.Debug("config still being written", "path", path)
		return
	}

	w.mu.Lock()
	w.lastModTime = mod
	w.mu.Unlock()

	cfg, err := load(path)
	if err != nil {
		w.log.Error("config reload failed, keeping previous config", "path", path, "error", err)
		return
	}

	w.log.Info("config reloaded", "path", path)
	w.onReload(cfg)
}
