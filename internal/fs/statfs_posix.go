//go:build linux || darwin

package fs

import (
	"fmt"
	"syscall"
)

func statfs(path string) (DiskUsage, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return DiskUsage{}, fmt.Errorf("statfs %s: %w", path, err)
	}

	return DiskUsage{
		Total:     int64(st.Blocks) * int64(st.Bsize),
		Available: int64(st.Bavail) * int64(st.Bsize),
	}, nil
}
