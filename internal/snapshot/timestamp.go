package snapshot

import (
	"fmt"
	"time"
)

// Layouts accepted for snapshot timestamps, tried in order.
var Layouts = []string{
	time.RFC3339Nano,
	"2006-01-02-150405",   // Time Machine directory names
	"2006-01-02T15-04-05", // archiver directory names
	"20060102150405",
}

// ParseTimestamp parses s with the first matching layout and returns it in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
