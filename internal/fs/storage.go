package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// VolumeStorage removes snapshot directories by name, confined to Root.
type VolumeStorage struct {
	Root string
	FS   FS
}

// NewVolumeStorage returns storage rooted at root. A nil filesystem uses the OS.
func NewVolumeStorage(root string, filesystem FS) *VolumeStorage {
	if filesystem == nil {
		filesystem = New()
	}
	return &VolumeStorage{Root: root, FS: filesystem}
}

// Resolve returns the absolute location of name, rejecting names that would
// leave the root or name the root itself.
func (v *VolumeStorage) Resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, name)
	}

	root := filepath.Clean(v.Root)
	p := filepath.Join(root, name)
	if filepath.Dir(p) != root {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, name)
	}
	return p, nil
}

// Remove deletes the snapshot directory called name.
func (v *VolumeStorage) Remove(ctx context.Context, name string) error {
	p, err := v.Resolve(name)
	if err != nil {
		return err
	}

	if err := v.FS.RemoveAll(ctx, p); err != nil {
		return fmt.Errorf("removing %s: %w", p, err)
	}
	return nil
}
