package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
)

type OSFS struct{}

// the concrete implementation of FS backed by the local OS filesystem.
// Platform-specific details (inodes, statfs) are handled in build-tagged files.

func New() *OSFS {
	return &OSFS{}
}

func (o *OSFS) ReadDir(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirEntry{
			Name:    e.Name(),
			IsDir:   e.IsDir(),
			Symlink: e.Type()&iofs.ModeSymlink != 0,
		})
	}
	return out, nil
}

// DirSize sums regular file sizes below path. Hard-linked files are counted
// once, which matters for snapshot stores that link unchanged files.
func (o *OSFS) DirSize(ctx context.Context, path string) (int64, error) {
	seen := make(map[uint64]struct{})
	var total int64

	err := filepath.WalkDir(path, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		if ino := inodeOf(info); ino != 0 {
			if _, dup := seen[ino]; dup {
				return nil
			}
			seen[ino] = struct{}{}
		}

		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("sizing %s: %w", path, err)
	}

	return total, nil
}

// RemoveAll removes path recursively. Unlike os.RemoveAll a missing path is
// an error wrapping ErrNotExist.
func (o *OSFS) RemoveAll(ctx context.Context, path string) error {
	if _, err := os.Lstat(path); err != nil {
		return err
	}

	return retry(ctx, "remove", func() error {
		return os.RemoveAll(path)
	})
}

func (o *OSFS) Statfs(path string) (DiskUsage, error) {
	return statfs(path)
}
