package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/raoulx24/timewarp/internal/config"
	"github.com/raoulx24/timewarp/internal/eviction"
	"github.com/raoulx24/timewarp/internal/selector"
	"github.com/raoulx24/timewarp/internal/snapshot"
)

func TestStore(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)

	a := snapshot.Snapshot{Name: "a", Size: 100}
	b := snapshot.Snapshot{Name: "b", Size: 200}
	keep := snapshot.Snapshot{Name: "keep", Size: 50}

	first := &eviction.RunOutcome{
		RunID:     "run-1",
		Mode:      config.ModeDryRun,
		StartedAt: base,
		Duration:  time.Second,
		Decision:  selector.Decision{Threshold: 60, Retain: []snapshot.Snapshot{keep}, Evict: []snapshot.Snapshot{a, b}},
		Results: []eviction.Result{
			{Snapshot: a, Status: eviction.StatusWouldEvict},
			{Snapshot: b, Status: eviction.StatusWouldEvict},
		},
	}
	second := &eviction.RunOutcome{
		RunID:      "run-2",
		Mode:       config.ModeLive,
		StartedAt:  base.Add(time.Hour),
		Duration:   2 * time.Second,
		BytesFreed: 100,
		Decision:   selector.Decision{Threshold: 60, Retain: []snapshot.Snapshot{keep}, Evict: []snapshot.Snapshot{a, b}},
		Results: []eviction.Result{
			{Snapshot: a, Status: eviction.StatusRemoved},
			{Snapshot: b, Status: eviction.StatusFailed, Detail: "permission denied"},
		},
	}

	for _, out := range []*eviction.RunOutcome{first, second} {
		if err := store.Record(ctx, out); err != nil {
			t.Fatalf("Record(%s) failed: %v", out.RunID, err)
		}
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	latest := runs[0]
	if latest.ID != "run-2" || latest.Mode != "live" {
		t.Errorf("unexpected newest run: %+v", latest)
	}
	if latest.Snapshots != 3 || latest.Evicted != 1 || latest.Failed != 1 || latest.BytesFreed != 100 {
		t.Errorf("unexpected counts: %+v", latest)
	}
	if !latest.StartedAt.Equal(base.Add(time.Hour)) || latest.Duration != 2*time.Second {
		t.Errorf("unexpected timing: %+v", latest)
	}
	if runs[1].Evicted != 2 {
		t.Errorf("dry run evicted = %d, want 2", runs[1].Evicted)
	}

	evs, err := store.Evictions(ctx, "run-2")
	if err != nil {
		t.Fatalf("Evictions() failed: %v", err)
	}
	if len(evs) != 2 || evs[0].Snapshot != "a" || evs[1].Status != "failed" || evs[1].Detail != "permission denied" {
		t.Errorf("unexpected evictions: %+v", evs)
	}

	limited, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent(1) failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Recent(1) returned %d runs", len(limited))
	}

	if err := store.Record(ctx, first); err == nil {
		t.Error("expected duplicate run id to fail")
	}
}
