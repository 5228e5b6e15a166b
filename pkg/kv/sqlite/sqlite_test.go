package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"brewcart/pkg/kv"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	_, err := s.Get(ctx, "cart")
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "cart", `[]`))
	require.NoError(t, s.Set(ctx, "cart", `[{"name":"Cortado"}]`))

	got, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	require.Equal(t, `[{"name":"Cortado"}]`, got)

	require.NoError(t, s.Delete(ctx, "cart"))
	_, err = s.Get(ctx, "cart")
	require.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStoreClosedIsUnavailable(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	require.NoError(t, s.Close())

	_, err := s.Get(ctx, "cart")
	require.ErrorIs(t, err, kv.ErrUnavailable)
	require.ErrorIs(t, s.Set(ctx, "cart", "[]"), kv.ErrUnavailable)
}
