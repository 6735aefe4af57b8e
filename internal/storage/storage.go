// Package storage persists the per-source seen markers and, for the SQLite
// driver, the history of post attempts.
package storage

import (
	"context"
	"fmt"

	"arxivbot/internal/config"
	"arxivbot/internal/model"
)

// Storage is the interface for all persistence operations.
type Storage interface {
	// LastDispatched returns the publication date last dispatched for
	// sourceID, or "" if the source was never dispatched.
	LastDispatched(ctx context.Context, sourceID string) (string, error)
	SetLastDispatched(ctx context.Context, sourceID, date string) error

	RecordPost(ctx context.Context, post *model.Post) error

	Close() error
}

// Open returns the store selected by cfg.Driver.
func Open(cfg config.StateConfig) (Storage, error) {
	switch cfg.Driver {
	case config.DriverFile, "":
		return NewFileStore(cfg.Path)
	case config.DriverSQLite:
		return NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("open storage: unknown driver %q", cfg.Driver)
	}
}
