package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"brewcart/pkg/kv"
)

// Schema creates the table backing Store.
const Schema = `CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store persists key-value entries in PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL store. The caller must apply Schema first, see
// Migrate.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the kv_entries table if needed.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create kv_entries: %w", err)
	}
	return nil
}

// Get retrieves the value stored at key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_entries WHERE key=$1", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", kv.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", kv.ErrUnavailable, key, err)
	}
	return v, nil
}

// Set upserts the value at key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_entries (key,value,updated_at) VALUES ($1,$2,now())
		 ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", kv.ErrUnavailable, key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_entries WHERE key=$1", key); err != nil {
		return fmt.Errorf("%w: delete %s: %v", kv.ErrUnavailable, key, err)
	}
	return nil
}
