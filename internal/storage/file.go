package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"arxivbot/internal/model"
)

const markerExt = ".date"

// FileStore keeps one single-line marker file per source in a directory.
// It records no post history.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(sourceID string) string {
	return filepath.Join(s.dir, sourceID+markerExt)
}

// LastDispatched reads the marker of sourceID. A missing file yields "".
func (s *FileStore) LastDispatched(_ context.Context, sourceID string) (string, error) {
	data, err := os.ReadFile(s.path(sourceID))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read marker: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SetLastDispatched replaces the marker of sourceID through a temp file and
// a rename, so a crash never leaves a half-written marker.
func (s *FileStore) SetLastDispatched(_ context.Context, sourceID, date string) error {
	tmp, err := os.CreateTemp(s.dir, sourceID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp marker: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(date + "\n"); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write marker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close marker: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(sourceID)); err != nil {
		return fmt.Errorf("rename marker: %w", err)
	}
	return nil
}

// RecordPost is a no-op.
func (s *FileStore) RecordPost(context.Context, *model.Post) error {
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
