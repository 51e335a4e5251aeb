package snapshot

import (
	"sort"
)

// Build validates raw entries and returns the inventory they describe.
// Zero entries yield an empty inventory together with ErrEmptyInventory.
func Build(entries []Entry) (*Inventory, error) {
	if len(entries) == 0 {
		return &Inventory{}, ErrEmptyInventory
	}

	seen := make(map[string]struct{}, len(entries))
	snaps := make([]Snapshot, 0, len(entries))
	var total int64

	for _, e := range entries {
		if e.Name == "" {
			return nil, &InvalidEntryError{Name: e.Name, Reason: "empty name"}
		}
		if _, dup := seen[e.Name]; dup {
			return nil, &InvalidEntryError{Name: e.Name, Reason: "duplicate name"}
		}
		seen[e.Name] = struct{}{}

		if e.Size < 0 {
			return nil, &InvalidEntryError{Name: e.Name, Reason: "negative size"}
		}

		ts := e.Time
		if ts.IsZero() {
			if e.Timestamp == "" {
				return nil, &InvalidEntryError{Name: e.Name, Reason: "missing timestamp"}
			}
			parsed, err := ParseTimestamp(e.Timestamp)
			if err != nil {
				return nil, &InvalidEntryError{Name: e.Name, Reason: "bad timestamp", Err: err}
			}
			ts = parsed
		}

		snaps = append(snaps, Snapshot{
			Name:      e.Name,
			Path:      e.Path,
			Timestamp: ts.UTC(),
			Size:      e.Size,
		})
		total += e.Size
	}

	// Sort oldest → newest
	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].Timestamp.Equal(snaps[j].Timestamp) {
			return snaps[i].Timestamp.Before(snaps[j].Timestamp)
		}
		return snaps[i].Name < snaps[j].Name
	})

	return &Inventory{Snapshots: snaps, total: total}, nil
}
