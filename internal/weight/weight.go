// Package weight assigns retention weights to snapshots. Higher weight makes
// a snapshot more likely to be retained by the selector.
package weight

import (
	"errors"
	"fmt"

	"github.com/raoulx24/timewarp/internal/snapshot"
)

// ErrWeight is matched by every WeightError.
var ErrWeight = errors.New("weight error")

// WeightError reports why a weight could not be computed.
type WeightError struct {
	Policy string
	Reason string
}

func (e *WeightError) Error() string {
	return fmt.Sprintf("weight policy %s: %s", e.Policy, e.Reason)
}

func (e *WeightError) Unwrap() error { return ErrWeight }

// Func computes the weight of one snapshot within its inventory.
type Func interface {
	Name() string
	Weight(s snapshot.Snapshot, inv *snapshot.Inventory) (float64, error)
}

// Assign computes weights for every snapshot of inv, in inventory order.
func Assign(fn Func, inv *snapshot.Inventory) ([]float64, error) {
	if inv.Len() == 0 {
		return nil, &WeightError{Policy: fn.Name(), Reason: "empty inventory"}
	}

	out := make([]float64, inv.Len())
	for i, s := range inv.Snapshots {
		w, err := fn.Weight(s, inv)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

// Uniform gives every snapshot the same weight.
type Uniform struct{}

func (Uniform) Name() string { return "uniform" }

func (Uniform) Weight(_ snapshot.Snapshot, inv *snapshot.Inventory) (float64, error) {
	if inv.Len() == 0 {
		return 0, &WeightError{Policy: "uniform", Reason: "empty inventory"}
	}
	return 1, nil
}
