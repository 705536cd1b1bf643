// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact keeps converted Markdown documents available for
// download for a limited time after a web conversion.
package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf2md/pkg/types"
)

// ErrNotFound is returned for unknown or expired artifact ids.
var ErrNotFound = errors.New("artifact not found")

// Artifact is one downloadable Markdown document.
type Artifact struct {
	ID        string
	Filename  string
	Markdown  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store manages the artifact SQLite database.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides time.Now for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore opens the database named by cfg.DSN and creates the schema if
// it does not exist. Artifacts expire ttl after they are stored.
func NewStore(cfg types.ArtifactConfig, ttl time.Duration, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS artifacts (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			markdown TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_expires_at ON artifacts(expires_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put stores markdown under a fresh id.
func (s *Store) Put(ctx context.Context, filename, markdown string) (Artifact, error) {
	now := s.now().UTC()
	a := Artifact{
		ID:        uuid.NewString(),
		Filename:  filename,
		Markdown:  markdown,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (id, filename, markdown, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Filename, a.Markdown, a.CreatedAt.UnixNano(), a.ExpiresAt.UnixNano(),
	)
	if err != nil {
		return Artifact{}, fmt.Errorf("inserting artifact: %w", err)
	}
	return a, nil
}

// Get returns the artifact with id unless it is unknown or expired.
func (s *Store) Get(ctx context.Context, id string) (Artifact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Artifact{}, ErrNotFound
	}

	var (
		a                  Artifact
		created, expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, filename, markdown, created_at, expires_at FROM artifacts WHERE id = ? AND expires_at > ?`,
		id, s.now().UTC().UnixNano(),
	).Scan(&a.ID, &a.Filename, &a.Markdown, &created, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Artifact{}, ErrNotFound
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("querying artifact %s: %w", id, err)
	}

	a.CreatedAt = time.Unix(0, created).UTC()
	a.ExpiresAt = time.Unix(0, expiresAt).UTC()
	return a, nil
}

// Sweep deletes artifacts that expired at or before now and reports how
// many were removed.
func (s *Store) Sweep(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM artifacts WHERE expires_at <= ?`, now.UTC().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("sweeping artifacts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting swept artifacts: %w", err)
	}
	return n, nil
}

// Count returns the number of stored artifacts, expired ones included.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM artifacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting artifacts: %w", err)
	}
	return n, nil
}
