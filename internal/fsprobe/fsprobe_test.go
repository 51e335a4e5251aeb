package fsprobe

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestProbe_MissingDir(t *testing.T) {
	res := Probe(filepath.Join(t.TempDir(), "nope"), DefaultTimeout)
	if res.FsnotifySupported {
		t.Fatal("expected unsupported for missing dir")
	}
	if res.Reason == "" {
		t.Error("expected a reason")
	}
}

func TestProbe_NotADir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if res := Probe(path, DefaultTimeout); res.FsnotifySupported || res.Reason != "not a directory" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestProbe_CleansUp(t *testing.T) {
	dir := t.TempDir()
	res := Probe(dir, time.Second)
	t.Logf("probe result: %+v", res)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("probe left files behind: %v", entries)
	}
}
