package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raoulx24/timewarp/internal/fs"
	"github.com/raoulx24/timewarp/internal/logging"
)

func TestBuild(t *testing.T) {
	entries := []Entry{
		{Name: "c", Timestamp: "2024-03-01-000000", Size: 300},
		{Name: "a", Timestamp: "2024-01-01T00:00:00Z", Size: 100},
		{Name: "b", Time: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Size: 200},
	}

	inv, err := Build(entries)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if inv.Len() != 3 {
		t.Fatalf("Len = %d, want 3", inv.Len())
	}
	if inv.TotalBytes() != 600 {
		t.Errorf("TotalBytes = %d, want 600", inv.TotalBytes())
	}

	want := []string{"a", "b", "c"}
	for i, s := range inv.Snapshots {
		if s.Name != want[i] {
			t.Errorf("Snapshots[%d] = %s, want %s", i, s.Name, want[i])
		}
	}

	newest, ok := inv.Newest()
	if !ok || newest.Name != "c" {
		t.Errorf("Newest = %v, %v", newest.Name, ok)
	}
}

func TestBuild_Empty(t *testing.T) {
	inv, err := Build(nil)
	if !errors.Is(err, ErrEmptyInventory) {
		t.Fatalf("expected ErrEmptyInventory, got %v", err)
	}
	if inv == nil || inv.Len() != 0 || inv.TotalBytes() != 0 {
		t.Errorf("expected empty inventory, got %+v", inv)
	}
}

func TestBuild_Invalid(t *testing.T) {
	ts := "2024-01-01-000000"
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"negative size", []Entry{{Name: "a", Timestamp: ts, Size: -1}}},
		{"bad timestamp", []Entry{{Name: "a", Timestamp: "yesterday", Size: 1}}},
		{"missing timestamp", []Entry{{Name: "a", Size: 1}}},
		{"empty name", []Entry{{Timestamp: ts, Size: 1}}},
		{"duplicate", []Entry{{Name: "a", Timestamp: ts}, {Name: "a", Timestamp: ts}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.entries)
			if !errors.Is(err, ErrInvalidEntry) {
				t.Fatalf("expected ErrInvalidEntry, got %v", err)
			}
			var ie *InvalidEntryError
			if !errors.As(err, &ie) {
				t.Errorf("expected *InvalidEntryError, got %T", err)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2013, 1, 27, 12, 34, 56, 0, time.UTC)
	for _, s := range []string{"2013-01-27-123456", "2013-01-27T12-34-56", "20130127123456", "2013-01-27T12:34:56Z"} {
		got, err := ParseTimestamp(s)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) failed: %v", s, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", s, got, want)
		}
	}
}

func createFile(t *testing.T, path string, size int64) {
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

func TestScan(t *testing.T) {
	vol := t.TempDir()
	createFile(t, filepath.Join(vol, "2024-01-01-000000", "f"), 10)
	createFile(t, filepath.Join(vol, "2024-01-02-000000", "deep", "g"), 20)
	createFile(t, filepath.Join(vol, "lost+found", "h"), 5)
	createFile(t, filepath.Join(vol, "operator-notes", "n"), 7)
	createFile(t, filepath.Join(vol, ".hidden", "x"), 1)
	createFile(t, filepath.Join(vol, "2024-01-03-000000.inProgress", "x"), 1)
	createFile(t, filepath.Join(vol, "stray-file"), 1)
	if err := os.Symlink(filepath.Join(vol, "2024-01-02-000000"), filepath.Join(vol, "Latest")); err != nil {
		t.Logf("symlink unsupported: %v", err)
	}

	entries, err := Scan(context.Background(), fs.New(), vol, logging.Discard())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	got := map[string]Entry{}
	for _, e := range entries {
		got[e.Name] = e
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 snapshots, got %d: %v", len(got), entries)
	}

	first := got["2024-01-01-000000"]
	if first.Size != 10 || !first.Time.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected entry: %+v", first)
	}
	if got["2024-01-02-000000"].Size != 20 {
		t.Errorf("nested size not summed: %+v", got["2024-01-02-000000"])
	}
	for _, name := range []string{"lost+found", "operator-notes"} {
		if _, ok := got[name]; ok {
			t.Errorf("directory %q without a timestamp listed as snapshot", name)
		}
	}

	inv, err := Build(entries)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if inv.TotalBytes() != 30 {
		t.Errorf("TotalBytes = %d, want 30", inv.TotalBytes())
	}
}

func TestScan_MissingVolume(t *testing.T) {
	_, err := Scan(context.Background(), fs.New(), filepath.Join(t.TempDir(), "nope"), logging.Discard())
	if err == nil {
		t.Error("expected error for missing volume")
	}
}
