package memory

import (
	"context"
	"errors"
	"testing"

	"brewcart/pkg/kv"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.Get(ctx, "cart"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "cart", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "cart")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `[]` {
		t.Fatalf("expected [], got %s", got)
	}
	if err := s.Set(ctx, "cart", `[{"name":"Latte"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := s.Get(ctx, "cart"); got != `[{"name":"Latte"}]` {
		t.Fatalf("overwrite not visible: %s", got)
	}
	if err := s.Delete(ctx, "cart"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "cart"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
	if _, err := s.Get(ctx, "cart"); err == nil {
		t.Fatal("expected error after delete")
	}
}
