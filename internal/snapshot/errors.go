package snapshot

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntry is matched by every InvalidEntryError.
	ErrInvalidEntry = errors.New("invalid inventory entry")

	// ErrEmptyInventory signals a volume without snapshots. It is benign.
	ErrEmptyInventory = errors.New("empty inventory")
)

// InvalidEntryError reports the listing record that failed validation.
type InvalidEntryError struct {
	Name   string
	Reason string
	Err    error
}

func (e *InvalidEntryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid entry %q: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid entry %q: %s", e.Name, e.Reason)
}

func (e *InvalidEntryError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidEntry, e.Err}
	}
	return []error{ErrInvalidEntry}
}
