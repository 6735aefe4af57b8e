package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "", want: slog.LevelInfo},
		{in: "verbose", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseLevel(tt.in)); diff != "" {
				t.Errorf("ParseLevel(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestNewAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bot.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("existing line\n"), 0o600); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	log, closer, err := New("info", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Debug("hidden")
	log.Warn("failed to send", "reason", "duplicate")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if diff := cmp.Diff(2, len(lines)); diff != "" {
		t.Fatalf("line count mismatch (-want +got):\n%s\n%s", diff, data)
	}
	if diff := cmp.Diff("existing line", lines[0]); diff != "" {
		t.Errorf("existing content must be kept (-want +got):\n%s", diff)
	}
	for _, part := range []string{"time=", "level=WARN", `msg="failed to send"`, "reason=duplicate"} {
		if !strings.Contains(lines[1], part) {
			t.Errorf("log line %q missing %q", lines[1], part)
		}
	}
}

func TestNewWithoutFile(t *testing.T) {
	log, closer, err := New("debug", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log == nil || closer == nil {
		t.Fatal("expected logger and closer")
	}
	if err := closer.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "error")
	log.Info("dropped")
	log.Error("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
