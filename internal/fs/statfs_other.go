//go:build !linux && !darwin

package fs

import "errors"

// Free space checks are only implemented for linux and darwin; minFree must stay 0 elsewhere.
func statfs(path string) (DiskUsage, error) {
	_ = path
	return DiskUsage{}, errors.New("statfs not supported on this platform")
}
