package eviction

import (
	"context"
	"fmt"
	"time"

	"github.com/raoulx24/timewarp/internal/config"
	"github.com/raoulx24/timewarp/internal/selector"
	"github.com/raoulx24/timewarp/internal/snapshot"
)

// Storage removes a snapshot by name. It is the only destructive capability
// the executor uses.
type Storage interface {
	Remove(ctx context.Context, name string) error
}

// Status is the per-snapshot outcome of an evicted snapshot.
type Status string

const (
	StatusRemoved    Status = "evicted"
	StatusFailed     Status = "failed"
	StatusWouldEvict Status = "would evict"
	StatusSkipped    Status = "skipped"
)

// Result records what happened to one evicted snapshot.
type Result struct {
	Snapshot snapshot.Snapshot
	Status   Status
	Detail   string
}

// RemovalError describes a failed removal. It never aborts a run.
type RemovalError struct {
	Snapshot string
	Err      error
}

func (e *RemovalError) Error() string {
	return fmt.Sprintf("removing snapshot %q: %v", e.Snapshot, e.Err)
}

func (e *RemovalError) Unwrap() error { return e.Err }

// RunOutcome is the result of applying one Decision.
type RunOutcome struct {
	RunID      string
	Mode       config.Mode
	Decision   selector.Decision
	Results    []Result
	BytesFreed int64
	StartedAt  time.Time
	Duration   time.Duration
}

// Count returns the number of results with status s.
func (o *RunOutcome) Count(s Status) int {
	n := 0
	for _, r := range o.Results {
		if r.Status == s {
			n++
		}
	}
	return n
}
