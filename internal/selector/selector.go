// Package selector partitions an inventory into retained and evicted
// snapshots under a byte budget using weighted random sampling.
//
// Each snapshot draws u from (0,1) and gets the key u^(1/w) (Efraimidis and
// Spirakis, A-ES). Snapshots are walked in key order, highest first, and kept
// while they fit in the budget. The walk does not stop at the first snapshot
// that does not fit, so smaller lower-priority snapshots can still be kept.
package selector

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/raoulx24/timewarp/internal/snapshot"
)

// ErrSelector is matched by every SelectorError.
var ErrSelector = errors.New("selector error")

// SelectorError reports an input the selector refuses to rank.
type SelectorError struct {
	Snapshot string
	Reason   string
}

func (e *SelectorError) Error() string {
	if e.Snapshot == "" {
		return "selector: " + e.Reason
	}
	return fmt.Sprintf("selector: snapshot %q: %s", e.Snapshot, e.Reason)
}

func (e *SelectorError) Unwrap() error { return ErrSelector }

// Weighted is a snapshot with its weight and priority key for one run.
type Weighted struct {
	snapshot.Snapshot
	Weight float64
	Key    float64

	logKey float64
}

// Decision partitions an inventory. Retain is ordered by timestamp; Evict is
// ordered by descending priority, which is the order removals are attempted.
type Decision struct {
	Threshold int64
	Retain    []snapshot.Snapshot
	Evict     []snapshot.Snapshot
	Ranked    []Weighted
}

// RetainedBytes returns the total size of the retained snapshots.
func (d Decision) RetainedBytes() int64 {
	return sumSize(d.Retain)
}

// EvictBytes returns the total size of the evicted snapshots.
func (d Decision) EvictBytes() int64 {
	return sumSize(d.Evict)
}

// Select ranks inv by weighted random keys and keeps the highest-ranked
// snapshots that fit into threshold bytes. weights[i] belongs to
// inv.Snapshots[i].
func Select(inv *snapshot.Inventory, weights []float64, threshold int64, src Source) (Decision, error) {
	d := Decision{Threshold: threshold}

	if threshold < 0 {
		return d, &SelectorError{Reason: fmt.Sprintf("negative threshold %d", threshold)}
	}
	if inv.Len() == 0 {
		return d, nil
	}
	if len(weights) != inv.Len() {
		return d, &SelectorError{Reason: fmt.Sprintf("%d weights for %d snapshots", len(weights), inv.Len())}
	}
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
			return d, &SelectorError{Snapshot: inv.Snapshots[i].Name, Reason: fmt.Sprintf("weight %v is not positive and finite", w)}
		}
	}

	if inv.TotalBytes() <= threshold {
		d.Retain = append([]snapshot.Snapshot(nil), inv.Snapshots...)
		return d, nil
	}

	if src == nil {
		return d, &SelectorError{Reason: "no random source"}
	}

	ranked := make([]Weighted, inv.Len())
	for i, s := range inv.Snapshots {
		u := draw(src)
		// ln(u)/w orders exactly like u^(1/w) without underflowing for small weights.
		lk := math.Log(u) / weights[i]
		ranked[i] = Weighted{Snapshot: s, Weight: weights[i], Key: math.Exp(lk), logKey: lk}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.logKey != b.logKey {
			return a.logKey > b.logKey
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.Name < b.Name
	})

	var used int64
	for _, w := range ranked {
		if w.Size <= threshold-used {
			used += w.Size
			d.Retain = append(d.Retain, w.Snapshot)
			continue
		}
		d.Evict = append(d.Evict, w.Snapshot)
	}

	sort.SliceStable(d.Retain, func(i, j int) bool {
		return d.Retain[i].Timestamp.Before(d.Retain[j].Timestamp)
	})
	d.Ranked = ranked

	return d, nil
}

// draw returns a value from the open interval (0, 1).
func draw(src Source) float64 {
	for {
		if u := src.Float64(); u > 0 && u < 1 {
			return u
		}
	}
}

func sumSize(snaps []snapshot.Snapshot) int64 {
	var n int64
	for _, s := range snaps {
		n += s.Size
	}
	return n
}
