package journal

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, "text")
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	w.Write(Entry{RunID: "r1", Mode: "live", Snapshot: "2024-01-01-000000", Size: 42, Decision: "evict", Status: "failed", Detail: "permission denied"})
	w.Summarize(Summary{RunID: "r1", Mode: "live", Snapshots: 1, Failed: 1})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	for _, want := range []string{"snapshot=2024-01-01-000000", "size=42", "decision=evict", "status=failed", `detail="permission denied"`} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("line %q missing %q", lines[0], want)
		}
	}
	if !strings.Contains(lines[1], "failed=1") {
		t.Errorf("summary line missing counts: %q", lines[1])
	}
}

func TestWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, "json")
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	w.Write(Entry{RunID: "r1", Mode: "dry-run", Snapshot: "a", Size: 7, Decision: "evict", Status: "would evict"})

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec["status"] != "would evict" || rec["snapshot"] != "a" {
		t.Errorf("unexpected record: %v", rec)
	}
	if _, ok := rec["detail"]; ok {
		t.Error("empty detail should be omitted")
	}
}

func TestOpen_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "timewarp.log")

	for i := 0; i < 2; i++ {
		w, err := Open(path, "text")
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		w.Write(Entry{RunID: "r", Snapshot: "s"})
		if err := w.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Errorf("expected 2 appended lines, got %d", n)
	}
}

func TestNewWriter_BadFormat(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, "csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}
