package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"arxivbot/internal/model"
	"arxivbot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database and additionally
// keeps a history of post attempts.
type SQLite struct {
	db      *sql.DB
	version int64
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps an in-memory database alive and shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	version, err := migrations.Run(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db, version: version}, nil
}

// SchemaVersion is the migration version the database was brought up to.
func (s *SQLite) SchemaVersion() int64 {
	return s.version
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// LastDispatched returns the stored marker for sourceID, or "" if none.
func (s *SQLite) LastDispatched(ctx context.Context, sourceID string) (string, error) {
	var date string
	err := s.db.QueryRowContext(ctx,
		`SELECT publication_date FROM seen_markers WHERE source_id = ?`, sourceID,
	).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query marker: %w", err)
	}
	return date, nil
}

// SetLastDispatched inserts or replaces the marker for sourceID.
func (s *SQLite) SetLastDispatched(ctx context.Context, sourceID, date string) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO seen_markers (source_id, publication_date, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(source_id) DO UPDATE SET publication_date = excluded.publication_date,
		                                      updated_at = excluded.updated_at`,
		sourceID, date, now,
	)
	if err != nil {
		return fmt.Errorf("upsert marker: %w", err)
	}
	return nil
}

// RecordPost inserts a history row and populates its ID and CreatedAt.
func (s *SQLite) RecordPost(ctx context.Context, post *model.Post) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (cycle_id, source_id, publication_date, link, text, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.CycleID, post.SourceID, post.PublicationDate, post.Link, post.Text,
		string(post.Status), post.Error, now,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	post.ID = id
	post.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// ListPosts returns up to limit history rows, newest first. An empty
// sourceID lists every source.
func (s *SQLite) ListPosts(ctx context.Context, sourceID string, limit int) ([]model.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cycle_id, source_id, publication_date, link, text, status, error, created_at
		 FROM posts
		 WHERE ? = '' OR source_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		sourceID, sourceID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPost(row scannable) (model.Post, error) {
	var p model.Post
	var status, created string
	err := row.Scan(&p.ID, &p.CycleID, &p.SourceID, &p.PublicationDate, &p.Link, &p.Text,
		&status, &p.Error, &created)
	if err != nil {
		return p, fmt.Errorf("scan post: %w", err)
	}
	p.Status = model.PostStatus(status)
	p.CreatedAt, _ = time.Parse(timeLayout, created)
	return p, nil
}
