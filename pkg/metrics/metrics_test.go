package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"brewcart/pkg/kv"
	"brewcart/pkg/kv/memory"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) { return "", kv.ErrUnavailable }
func (failingStore) Set(context.Context, string, string) error   { return errors.New("quota exceeded") }
func (failingStore) Delete(context.Context, string) error        { return nil }

func TestInstrumentedStoreCountsOutcomes(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := New(reg)

	s := kv.Instrument(memory.New(), m)
	s.Get(ctx, "cart")
	s.Set(ctx, "cart", "[]")
	s.Get(ctx, "cart")

	f := kv.Instrument(failingStore{}, m)
	f.Set(ctx, "cart", "[]")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.kvOps.WithLabelValues("get", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.kvOps.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.kvOps.WithLabelValues("set", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.kvOps.WithLabelValues("set", "error")))
}

func TestDomainCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.IncCartEvent("item_added")
	m.IncCartEvent("item_added")
	m.IncOrders()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cartEvents.WithLabelValues("item_added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orders))
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := New(nil)
	m.IncOrders()
	m.IncCartEvent("cart_cleared")
	m.ObserveKV("get", nil, 0)

	var nilMetrics *Metrics
	nilMetrics.IncOrders()
}
