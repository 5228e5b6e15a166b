package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"brewcart/pkg/kv"
)

// Metrics records store and cart activity.
type Metrics struct {
	kvOps      *prometheus.CounterVec
	kvDuration *prometheus.HistogramVec
	cartEvents *prometheus.CounterVec
	orders     prometheus.Counter
}

// New registers the collectors on reg. A nil registerer yields a Metrics
// whose methods do nothing.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		kvOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kv_operations_total",
			Help: "Key-value store operations by outcome.",
		}, []string{"op", "result"}),
		kvDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kv_operation_duration_seconds",
			Help:    "Duration of key-value store operations in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		cartEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_events_total",
			Help: "Cart mutations by kind.",
		}, []string{"kind"}),
		orders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_submitted_total",
			Help: "Orders appended to the order log.",
		}),
	}
	reg.MustRegister(m.kvOps, m.kvDuration, m.cartEvents, m.orders)
	return m
}

// ObserveKV implements kv.Observer.
func (m *Metrics) ObserveKV(op string, err error, took time.Duration) {
	if m == nil || m.kvOps == nil {
		return
	}
	m.kvOps.WithLabelValues(op, result(err)).Inc()
	m.kvDuration.WithLabelValues(op).Observe(took.Seconds())
}

// IncCartEvent counts a cart mutation of the given kind.
func (m *Metrics) IncCartEvent(kind string) {
	if m == nil || m.cartEvents == nil {
		return
	}
	m.cartEvents.WithLabelValues(kind).Inc()
}

// IncOrders counts a submitted order.
func (m *Metrics) IncOrders() {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.Inc()
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, kv.ErrNotFound):
		return "miss"
	default:
		return "error"
	}
}
