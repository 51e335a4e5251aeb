package fs

import (
	"errors"
	iofs "io/fs"
	"syscall"
)

var (
	// ErrNotExist is returned when a removal target is already gone.
	ErrNotExist = iofs.ErrNotExist

	// ErrOutsideRoot is returned for removal targets that escape the volume.
	ErrOutsideRoot = errors.New("path escapes volume root")
)

// defines helpers for detecting transient filesystem errors.
// These determine whether an operation should retry or fail immediately.

func isTransient(err error) bool {
	if errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.EINTR) {
		return true
	}

	// extend here for network FS specific errors if needed
	return false
}
