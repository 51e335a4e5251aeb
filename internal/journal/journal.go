// Package journal writes the append-only eviction log: one line per
// evaluated snapshot per run, plus a closing summary line.
package journal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Entry is the record of one evaluated snapshot.
type Entry struct {
	RunID    string
	Mode     string
	Snapshot string
	Size     int64
	Decision string // "retain", "evict"
	Status   string // "kept", "would evict", "evicted", "failed", "skipped"
	Detail   string
}

// Summary closes the records of one run.
type Summary struct {
	RunID      string
	Mode       string
	Snapshots  int
	TotalBytes int64
	Threshold  int64
	Evicted    int
	Failed     int
	BytesFreed int64
}

// Journal receives eviction records.
type Journal interface {
	Write(e Entry)
	Summarize(s Summary)
}

// Writer is a Journal backed by an slog handler.
type Writer struct {
	l      *slog.Logger
	closer io.Closer
}

// NewWriter writes records to w in "text" or "json" format.
func NewWriter(w io.Writer, format string) (*Writer, error) {
	var h slog.Handler
	switch format {
	case "", "text":
		h = slog.NewTextHandler(w, nil)
	case "json":
		h = slog.NewJSONHandler(w, nil)
	default:
		return nil, fmt.Errorf("unknown journal format %q", format)
	}
	return &Writer{l: slog.New(h)}, nil
}

// Open appends to the file at path, creating it and its directory if needed.
// "-" writes to stdout.
func Open(path, format string) (*Writer, error) {
	if path == "-" {
		return NewWriter(os.Stdout, format)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	w, err := NewWriter(f, format)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

func (w *Writer) Write(e Entry) {
	args := []any{
		"run_id", e.RunID,
		"mode", e.Mode,
		"snapshot", e.Snapshot,
		"size", e.Size,
		"decision", e.Decision,
		"status", e.Status,
	}
	if e.Detail != "" {
		args = append(args, "detail", e.Detail)
	}
	w.l.Info("snapshot", args...)
}

func (w *Writer) Summarize(s Summary) {
	w.l.Info("run",
		"run_id", s.RunID,
		"mode", s.Mode,
		"snapshots", s.Snapshots,
		"total_bytes", s.TotalBytes,
		"threshold", s.Threshold,
		"evicted", s.Evicted,
		"failed", s.Failed,
		"bytes_freed", s.BytesFreed,
	)
}

// Close closes the underlying file, if any.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// Memory keeps records in memory.
type Memory struct {
	mu        sync.Mutex
	Entries   []Entry
	Summaries []Summary
}

func (m *Memory) Write(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, e)
}

func (m *Memory) Summarize(s Summary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Summaries = append(m.Summaries, s)
}

// Discard drops every record.
type Discard struct{}

func (Discard) Write(Entry)       {}
func (Discard) Summarize(Summary) {}
