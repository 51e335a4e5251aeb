// Package eviction applies selector decisions, either by recording them
// (dry run) or by removing the evicted snapshots (live).
package eviction

import (
	"context"
	"time"

	"github.com/raoulx24/timewarp/internal/config"
	"github.com/raoulx24/timewarp/internal/journal"
	"github.com/raoulx24/timewarp/internal/logging"
	"github.com/raoulx24/timewarp/internal/selector"
)

// Executor applies decisions through a Storage capability.
type Executor struct {
	live    Storage
	journal journal.Journal
	log     logging.Logger
	now     func() time.Time
}

// NewExecutor wires live as the removal capability used in live mode.
// Dry runs never call storage.
func NewExecutor(live Storage, j journal.Journal, log logging.Logger) *Executor {
	if j == nil {
		j = journal.Discard{}
	}
	return &Executor{
		live:    live,
		journal: j,
		log:     log,
		now:     time.Now,
	}
}

// Apply journals every snapshot of d and, in live mode, removes the evicted
// ones in priority order. A failed removal is recorded and the walk goes on.
// Retained snapshots are never passed to storage.
func (e *Executor) Apply(ctx context.Context, runID string, d selector.Decision, mode config.Mode) RunOutcome {
	start := e.now()
	out := RunOutcome{
		RunID:     runID,
		Mode:      mode,
		Decision:  d,
		StartedAt: start,
	}

	for _, s := range d.Retain {
		e.journal.Write(journal.Entry{
			RunID:    runID,
			Mode:     string(mode),
			Snapshot: s.Name,
			Size:     s.Size,
			Decision: "retain",
			Status:   "kept",
		})
	}

	for _, s := range d.Evict {
		res := Result{Snapshot: s}

		switch {
		case ctx.Err() != nil:
			res.Status = StatusSkipped
			res.Detail = ctx.Err().Error()

		case mode != config.ModeLive:
			res.Status = StatusWouldEvict

		default:
			if err := e.live.Remove(ctx, s.Name); err != nil {
				rerr := &RemovalError{Snapshot: s.Name, Err: err}
				res.Status = StatusFailed
				res.Detail = err.Error()
				e.log.Warn("eviction failed", "snapshot", s.Name, "error", rerr)
			} else {
				res.Status = StatusRemoved
				out.BytesFreed += s.Size
				e.log.Info("snapshot evicted", "snapshot", s.Name, "size", s.Size)
			}
		}

		e.journal.Write(journal.Entry{
			RunID:    runID,
			Mode:     string(mode),
			Snapshot: s.Name,
			Size:     s.Size,
			Decision: "evict",
			Status:   string(res.Status),
			Detail:   res.Detail,
		})
		out.Results = append(out.Results, res)
	}

	out.Duration = e.now().Sub(start)

	e.journal.Summarize(journal.Summary{
		RunID:      runID,
		Mode:       string(mode),
		Snapshots:  len(d.Retain) + len(d.Evict),
		TotalBytes: d.RetainedBytes() + d.EvictBytes(),
		Threshold:  d.Threshold,
		Evicted:    out.Count(StatusRemoved) + out.Count(StatusWouldEvict),
		Failed:     out.Count(StatusFailed),
		BytesFreed: out.BytesFreed,
	})

	return out
}
