package weight

import (
	"math"
	"time"

	"github.com/raoulx24/timewarp/internal/snapshot"
)

const (
	// NewestWeight keeps the latest snapshot in practically every sample.
	NewestWeight = 1e4

	phi = 1.618
)

// Gap favours recent snapshots and snapshots that stand alone in a sparse
// stretch of the timeline:
//
//	w = 1 + 100·φ^(−ageDays) + 100·ln(gapWeeks)
//
// where gapWeeks is the distance to the next newer snapshot, at least 1.
type Gap struct {
	Now func() time.Time
}

func (Gap) Name() string { return "gap" }

func (g Gap) Weight(s snapshot.Snapshot, inv *snapshot.Inventory) (float64, error) {
	if inv.Len() == 0 {
		return 0, &WeightError{Policy: "gap", Reason: "empty inventory"}
	}

	idx := -1
	for i := range inv.Snapshots {
		if inv.Snapshots[i].Name == s.Name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, &WeightError{Policy: "gap", Reason: "snapshot " + s.Name + " not in inventory"}
	}

	if idx == inv.Len()-1 {
		return NewestWeight, nil
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	today := now().UTC()

	age := wholeDays(today.Sub(s.Timestamp))
	nextAge := wholeDays(today.Sub(inv.Snapshots[idx+1].Timestamp))

	gapWeeks := float64(age-nextAge) / 7
	if gapWeeks < 1 {
		gapWeeks = 1
	}

	return 1 + 100*math.Pow(phi, -float64(age)) + 100*math.Log(gapWeeks), nil
}

func wholeDays(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
