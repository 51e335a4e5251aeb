// Package fs defines the filesystem abstraction used by timewarp.
// It provides the FS interface and the types shared across the system.
package fs

import (
	"context"
)

type DirEntry struct {
	Name    string
	IsDir   bool
	Symlink bool
}

// DiskUsage is the capacity of the filesystem holding a path.
type DiskUsage struct {
	Total     int64
	Available int64
}

type FS interface {
	ReadDir(path string) ([]DirEntry, error)
	DirSize(ctx context.Context, path string) (int64, error)
	RemoveAll(ctx context.Context, path string) error
	Statfs(path string) (DiskUsage, error)
}
