package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"arxivbot/internal/config"
	"arxivbot/internal/model"
)

func TestFileStoreMarkers(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "state")

	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	got, err := s.LastDispatched(ctx, "CSCL")
	if err != nil {
		t.Fatalf("last dispatched: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty marker, got %q", got)
	}

	for _, date := range []string{"2024-01-10T20:30:00-05:00", "2024-01-11T20:30:00-05:00"} {
		if err := s.SetLastDispatched(ctx, "CSCL", date); err != nil {
			t.Fatalf("set marker: %v", err)
		}
		got, err := s.LastDispatched(ctx, "CSCL")
		if err != nil {
			t.Fatalf("last dispatched: %v", err)
		}
		if diff := cmp.Diff(date, got); diff != "" {
			t.Errorf("marker mismatch (-want +got):\n%s", diff)
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, "CSCL.date"))
	if err != nil {
		t.Fatalf("read marker file: %v", err)
	}
	if diff := cmp.Diff("2024-01-11T20:30:00-05:00\n", string(raw)); diff != "" {
		t.Errorf("marker file mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the marker file, got %d entries", len(entries))
	}

	if err := s.RecordPost(ctx, &model.Post{SourceID: "CSCL"}); err != nil {
		t.Errorf("record post: %v", err)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StateConfig
		want    string
		wantErr bool
	}{
		{name: "file", cfg: config.StateConfig{Driver: config.DriverFile, Path: t.TempDir()}, want: "*storage.FileStore"},
		{name: "sqlite", cfg: config.StateConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "db", "bot.db")}, want: "*storage.SQLite"},
		{name: "unknown", cfg: config.StateConfig{Driver: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer func() { _ = s.Close() }()

			var got string
			switch s.(type) {
			case *FileStore:
				got = "*storage.FileStore"
			case *SQLite:
				got = "*storage.SQLite"
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Open() type mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
