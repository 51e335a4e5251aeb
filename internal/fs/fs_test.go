package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string, size int64) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := f.Truncate(size); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	f.Close()
}

func TestOSFS_DirSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"), 10)
	writeFile(t, filepath.Join(dir, "sub", "b"), 20)
	if err := os.Link(filepath.Join(dir, "a"), filepath.Join(dir, "sub", "a-link")); err != nil {
		t.Skipf("hard links unsupported: %v", err)
	}

	got, err := New().DirSize(context.Background(), dir)
	if err != nil {
		t.Fatalf("DirSize failed: %v", err)
	}
	if got != 30 {
		t.Errorf("DirSize = %d, want 30 (hard link counted once)", got)
	}
}

func TestOSFS_RemoveAll(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "snap")
	writeFile(t, filepath.Join(target, "x", "y"), 5)

	o := New()
	ctx := context.Background()

	if err := o.RemoveAll(ctx, target); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("target still exists: %v", err)
	}

	err := o.RemoveAll(ctx, target)
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("second RemoveAll = %v, want ErrNotExist", err)
	}
}

func TestOSFS_ReadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "d", "f"), 1)
	writeFile(t, filepath.Join(dir, "file"), 1)

	entries, err := New().ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Name == "d" && !e.IsDir {
			t.Error("expected d to be a directory")
		}
		if e.Name == "file" && e.IsDir {
			t.Error("expected file not to be a directory")
		}
	}
}

func TestVolumeStorage_Resolve(t *testing.T) {
	v := NewVolumeStorage("/vol", nil)

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"2024-01-02-030405", filepath.Join("/vol", "2024-01-02-030405"), false},
		{"", "", true},
		{"..", "", true},
		{".", "", true},
		{"../etc", "", true},
		{"a/b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Resolve(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrOutsideRoot) {
				t.Errorf("expected ErrOutsideRoot, got %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestVolumeStorage_Remove(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "snap1", "data"), 3)

	v := NewVolumeStorage(root, nil)
	ctx := context.Background()

	if err := v.Remove(ctx, "snap1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := v.Remove(ctx, "snap1"); !errors.Is(err, ErrNotExist) {
		t.Errorf("Remove of missing snapshot = %v, want ErrNotExist", err)
	}
}

func TestRetry(t *testing.T) {
	old := retryBase
	retryBase = time.Millisecond
	defer func() { retryBase = old }()

	ctx := context.Background()

	t.Run("transient then success", func(t *testing.T) {
		calls := 0
		err := retry(ctx, "op", func() error {
			calls++
			if calls < 3 {
				return syscall.EBUSY
			}
			return nil
		})
		if err != nil {
			t.Fatalf("retry failed: %v", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("permanent", func(t *testing.T) {
		calls := 0
		err := retry(ctx, "op", func() error {
			calls++
			return syscall.EACCES
		})
		if !errors.Is(err, syscall.EACCES) {
			t.Errorf("expected EACCES, got %v", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		err := retry(ctx, "op", func() error { return syscall.EAGAIN })
		if !errors.Is(err, syscall.EAGAIN) {
			t.Errorf("expected EAGAIN, got %v", err)
		}
	})
}
