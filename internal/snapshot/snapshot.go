// Package snapshot models the snapshots held by a backup volume.
package snapshot

import (
	"time"
)

// Snapshot represents a single snapshot directory on a volume.
type Snapshot struct {
	Name      string
	Path      string
	Timestamp time.Time
	Size      int64
}

// Entry is one raw listing record, before validation.
// Either Time or Timestamp must be set; Time wins when both are.
type Entry struct {
	Name      string
	Path      string
	Timestamp string
	Time      time.Time
	Size      int64
}

// Inventory is the snapshot set of one volume at one instant, ordered by
// timestamp ascending.
type Inventory struct {
	Snapshots []Snapshot
	total     int64
}

// Len returns the number of snapshots.
func (inv *Inventory) Len() int {
	if inv == nil {
		return 0
	}
	return len(inv.Snapshots)
}

// TotalBytes returns the sum of snapshot sizes.
func (inv *Inventory) TotalBytes() int64 {
	if inv == nil {
		return 0
	}
	return inv.total
}

// Newest returns the most recent snapshot.
func (inv *Inventory) Newest() (Snapshot, bool) {
	if inv.Len() == 0 {
		return Snapshot{}, false
	}
	return inv.Snapshots[len(inv.Snapshots)-1], true
}
