// Package store provides the local sqlite cache: best-effort JSON snapshots
// keyed by string, plus a record of notification ids already seen so that
// the app can tell new arrivals from refetched ones.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no value is stored under a key.
var ErrNotFound = errors.New("not found")

// SQLiteStore is the sqlite-backed local cache.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, enables
// WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Set stores a JSON value under key, replacing any previous value.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO cache (key, value, updated_at)
		VALUES (?, ?, ?)`,
		key, string(value), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("caching %q: %w", key, err)
	}
	return nil
}

// Get retrieves the JSON value stored under key, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM cache WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache %q: %w", key, err)
	}
	return []byte(value), nil
}

// Delete removes the value stored under key. Missing keys are a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting cache %q: %w", key, err)
	}
	return nil
}

// MarkSeen records notification ids as seen and reports which of them were
// new. Used to distinguish fresh arrivals in a refetched snapshot.
func (s *SQLiteStore) MarkSeen(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT OR IGNORE INTO seen_notifications (id, row_id, seen_at)
		VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing seen insert: %w", err)
	}
	defer stmt.Close()

	var fresh []string
	now := time.Now().UTC()
	for _, id := range ids {
		res, err := stmt.ExecContext(ctx, id, uuid.New().String(), now)
		if err != nil {
			return nil, fmt.Errorf("recording seen notification %s: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			fresh = append(fresh, id)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing seen notifications: %w", err)
	}
	return fresh, nil
}
