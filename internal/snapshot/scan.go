package snapshot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/raoulx24/timewarp/internal/fs"
	"github.com/raoulx24/timewarp/internal/logging"
)

// names skipped by Scan besides dot-prefixed ones
const (
	latestLink       = "Latest"
	inProgressSuffix = ".inProgress"
)

// Scan lists the snapshot directories directly under volume.
// Hidden entries, the Latest link and unfinished (.inProgress) snapshots are
// skipped. A snapshot's timestamp comes from its directory name; directories
// whose name is not a timestamp are not snapshots and are skipped with a
// warning, so they can never be evicted.
func Scan(ctx context.Context, filesystem fs.FS, volume string, log logging.Logger) ([]Entry, error) {
	dirents, err := filesystem.ReadDir(volume)
	if err != nil {
		return nil, fmt.Errorf("reading volume: %w", err)
	}

	var entries []Entry
	for _, d := range dirents {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isSnapshotDir(d) {
			continue
		}

		ts, err := ParseTimestamp(d.Name)
		if err != nil {
			log.Warn("skipping directory without a snapshot timestamp", "volume", volume, "name", d.Name)
			continue
		}

		full := filepath.Join(volume, d.Name)

		size, err := filesystem.DirSize(ctx, full)
		if err != nil {
			return nil, err
		}

		entries = append(entries, Entry{Name: d.Name, Path: full, Time: ts, Size: size})
	}

	return entries, nil
}

func isSnapshotDir(d fs.DirEntry) bool {
	if !d.IsDir || d.Symlink {
		return false
	}
	if strings.HasPrefix(d.Name, ".") || d.Name == latestLink {
		return false
	}
	return !strings.HasSuffix(d.Name, inProgressSuffix)
}
