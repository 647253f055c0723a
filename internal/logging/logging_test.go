package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_NopByDefault(t *testing.T) {
	t.Parallel()

	l, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zap.ErrorLevel) {
		t.Fatalf("expected a Nop logger")
	}
}

func TestNew_FileSinkWritesJSON(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "triage.log")
	l, err := New(Options{File: p})
	if err != nil {
		t.Fatal(err)
	}
	l.Debug("hidden")
	l.Error("analysis error", zap.String("kind", "status"))
	_ = Sync(l)

	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line (debug filtered), got %q", string(b))
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if entry["msg"] != "analysis error" || entry["level"] != "error" || entry["kind"] != "status" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestSync_Nil(t *testing.T) {
	t.Parallel()

	if err := Sync(nil); err != nil {
		t.Fatal(err)
	}
}
