// Package fsprobe checks whether fsnotify delivers events for a directory.
// Network and FUSE mounts often accept a watch and then stay silent, so the
// probe writes and renames a real file and waits for the events.
package fsprobe

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultTimeout is how long Probe waits for the first event.
const DefaultTimeout = 200 * time.Millisecond

// Result reports whether fsnotify is usable and why.
type Result struct {
	FsnotifySupported bool   // true if events are delivered
	Reason            string // explanation when unsupported
}

// Probe tests whether fsnotify reports a write followed by a rename in dir,
// the way editors save a config file.
func Probe(dir string, timeout time.Duration) Result {
	st, err := os.Stat(dir)
	if err != nil {
		return Result{false, fmt.Sprintf("stat failed: %v", err)}
	}
	if !st.IsDir() {
		return Result{false, "not a directory"}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return Result{false, fmt.Sprintf("fsnotify unavailable: %v", err)}
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return Result{false, fmt.Sprintf("cannot watch directory: %v", err)}
	}

	f, err := os.CreateTemp(dir, ".timewarp-probe-*")
	if err != nil {
		return Result{false, fmt.Sprintf("cannot create probe file: %v", err)}
	}
	tmp := f.Name()
	_, werr := f.WriteString("probe\n")
	f.Close()
	if werr != nil {
		os.Remove(tmp)
		return Result{false, fmt.Sprintf("cannot write probe file: %v", werr)}
	}

	final := filepath.Join(dir, filepath.Base(tmp)+".done")
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return Result{false, fmt.Sprintf("rename failed: %v", err)}
	}
	defer os.Remove(final)

	deadline := time.After(timeout)
	for {
		select {
		case ev := <-w.Events:
			if ev.Op&(fsnotify.Rename|fsnotify.Create|fsnotify.Write) != 0 {
				return Result{true, ""}
			}
		case err := <-w.Errors:
			return Result{false, fmt.Sprintf("watch error: %v", err)}
		case <-deadline:
			return Result{false, "no events received within " + timeout.String()}
		}
	}
}
