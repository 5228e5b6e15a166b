package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"brewcart/pkg/kv"
	"brewcart/pkg/kv/memory"
	"brewcart/pkg/logger"
	"brewcart/pkg/metrics"
	"brewcart/pkg/order"
	"brewcart/pkg/session"
)

type failSetStore struct {
	*memory.Store
	key string
}

func (f *failSetStore) Set(ctx context.Context, key, value string) error {
	if key == f.key {
		return errors.New("quota exceeded")
	}
	return f.Store.Set(ctx, key, value)
}

type failGetStore struct {
	*memory.Store
	prefix string
}

func (f *failGetStore) Get(ctx context.Context, key string) (string, error) {
	if strings.HasPrefix(key, f.prefix) {
		return "", kv.ErrUnavailable
	}
	return f.Store.Get(ctx, key)
}

type testClient struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func newTestClient(t *testing.T, store kv.Store) *testClient {
	a := &api{
		store:      store,
		sessions:   session.NewMemory(time.Hour),
		metrics:    metrics.New(prometheus.NewRegistry()),
		log:        logger.Nop(),
		cookieName: "session_id",
		sessionTTL: time.Hour,
	}
	return &testClient{t: t, h: a.routes(noop.NewTracerProvider().Tracer("test"))}
}

func (c *testClient) do(method, path, body string, out any) int {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "session_id" {
			c.cookie = ck
		}
	}
	if out != nil {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

const validForm = `{"name":"Ada","phone":"555-123-4567","email":"ada@example.com","message":"Two lattes please"}`

func TestCartFlow(t *testing.T) {
	c := newTestClient(t, memory.New())

	var cart cartResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/items", `{"name":"Latte","unitPrice":4.5}`, &cart))
	assert.Equal(t, "Latte added to order!", cart.Notice)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/items", `{"name":"Latte","unitPrice":4.5}`, &cart))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/items", `{"name":"Cold Brew","unitPrice":"5.00"}`, &cart))
	assert.Equal(t, 3, cart.Count)
	assert.Equal(t, "14.00", cart.Total.StringFixed(2))

	var msg map[string]string
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/cart/message", "", &msg))
	assert.Equal(t, "I'd like to order:\n\n• 2x Latte - $9.00\n• 1x Cold Brew - $5.00\n\nTotal: $14.00", msg["message"])

	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/cart/items/Cold%20Brew", "", &cart))
	assert.Equal(t, "Cold Brew removed from order", cart.Notice)
	require.Len(t, cart.Items, 1)

	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/cart/items/Scone", "", &cart))
	assert.Empty(t, cart.Notice)
	assert.Len(t, cart.Items, 1)

	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/cart", "", &cart))
	assert.Equal(t, "Order cleared", cart.Notice)
	assert.Empty(t, cart.Items)
}

func TestAddItemRejectsBadInput(t *testing.T) {
	c := newTestClient(t, memory.New())
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/cart/items", `{"name":"","unitPrice":1}`, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/cart/items", `{"name":"Latte","unitPrice":-1}`, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/cart/items", `{`, nil))
}

func TestSessionsHaveSeparateCarts(t *testing.T) {
	store := memory.New()
	a := newTestClient(t, store)
	b := newTestClient(t, store)
	b.h = a.h

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/cart/items", `{"name":"Latte","unitPrice":4.5}`, nil))

	var cart cartResponse
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/cart", "", &cart))
	assert.Empty(t, cart.Items)
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/cart", "", &cart))
	assert.Len(t, cart.Items, 1)
}

func TestSubmitOrderFlow(t *testing.T) {
	c := newTestClient(t, memory.New())

	var errResp errorResponse
	require.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/orders", validForm, &errResp))

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/items", `{"name":"Latte","unitPrice":4.5}`, nil))

	require.Equal(t, http.StatusUnprocessableEntity, c.do(http.MethodPost, "/orders",
		`{"name":"A","phone":"123","email":"nope","message":"hi"}`, &errResp))
	assert.Len(t, errResp.Fields, 4)
	assert.Equal(t, "Please enter a valid email address", errResp.Fields["email"])

	var resp orderResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/orders", validForm, &resp))
	assert.Equal(t, "Thank you, Ada! Your order has been received. We'll contact you shortly.", resp.Notice)
	assert.Equal(t, order.StatusPending, resp.Order.Status)
	assert.Equal(t, "4.50", resp.Order.Total.StringFixed(2))

	var cart cartResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/cart", "", &cart))
	assert.Empty(t, cart.Items)

	var admin adminOrdersResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/admin/orders", "", &admin))
	require.Equal(t, 1, admin.Count)
	assert.Equal(t, resp.Order.ID, admin.Orders[0].ID)
	assert.Equal(t, "status-pending", admin.Orders[0].StatusClass)
}

func TestSubmitOrderStoreFailureKeepsCart(t *testing.T) {
	c := newTestClient(t, &failSetStore{Store: memory.New(), key: order.OrderLogKey})
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/items", `{"name":"Latte","unitPrice":4.5}`, nil))

	var errResp errorResponse
	require.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodPost, "/orders", validForm, &errResp))

	var cart cartResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/cart", "", &cart))
	assert.Len(t, cart.Items, 1)
}

func TestUnreadableCartIsUnavailable(t *testing.T) {
	c := newTestClient(t, &failGetStore{Store: memory.New(), prefix: order.CartKey + ":"})

	var errResp errorResponse
	require.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodPost, "/cart/items", `{"name":"Latte","unitPrice":4.5}`, &errResp))
	require.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodPost, "/orders", validForm, &errResp))
	assert.Equal(t, "order store unavailable, please try again", errResp.Error)

	var cart cartResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/cart", "", &cart))
	assert.Empty(t, cart.Items)
}
