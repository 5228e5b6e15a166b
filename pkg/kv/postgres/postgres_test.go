package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"brewcart/pkg/kv"
)

// Runs against a live database when BREWCART_TEST_DSN is set.
func TestStore(t *testing.T) {
	dsn := os.Getenv("BREWCART_TEST_DSN")
	if dsn == "" {
		t.Skip("BREWCART_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := New(db)
	key := "test:cart"
	t.Cleanup(func() { s.Delete(ctx, key) })

	if err := s.Set(ctx, key, `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, key, `[{"name":"Mocha"}]`); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `[{"name":"Mocha"}]` {
		t.Fatalf("unexpected value %s", got)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreClosedDBIsUnavailable(t *testing.T) {
	db, err := sql.Open("postgres", "postgres://invalid")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.Close()

	s := New(db)
	if _, err := s.Get(context.Background(), "cart"); !errors.Is(err, kv.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := s.Set(context.Background(), "cart", "[]"); !errors.Is(err, kv.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
