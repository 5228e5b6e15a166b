package order

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brewcart/pkg/kv"
	"brewcart/pkg/logger"
)

// Service owns the cart and the order log. Every operation reads the current
// document from the store and every mutation writes it back before returning.
type Service struct {
	store    kv.Store
	log      *logger.Logger
	now      func() time.Time
	newID    func() string
	cartKey  string
	orderKey string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for degraded reads and partial submissions.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the submission clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDFunc overrides the order id source. Without it ids are UUIDv7 values
// stamped with the submission time.
func WithIDFunc(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithCartKey stores the cart under key instead of CartKey, so several
// sessions can share one store and one order log.
func WithCartKey(key string) Option {
	return func(s *Service) { s.cartKey = key }
}

// NewService returns a Service persisting to store.
func NewService(store kv.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		log:      logger.Nop(),
		now:      time.Now,
		cartKey:  CartKey,
		orderKey: OrderLogKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// orderIDAt returns a UUIDv7 whose timestamp field is at, so ids sort with
// submittedAt even under an injected clock.
func orderIDAt(at time.Time) string {
	id := uuid.Must(uuid.NewV7())
	ms := uint64(at.UnixMilli())
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}
	return id.String()
}

// AddItem adds one unit of name to the cart, inserting a new line at
// quantity 1 when the name is not present yet. A cart that cannot be read is
// left as it is and ErrStoreUnavailable is returned.
func (s *Service) AddItem(ctx context.Context, name string, unitPrice decimal.Decimal) (Event, error) {
	items, err := s.loadCart(ctx)
	if err != nil {
		return Event{}, err
	}

	qty := 1
	if i := indexOf(items, name); i >= 0 {
		items[i].Quantity++
		items[i].recompute()
		qty = items[i].Quantity
	} else {
		li := LineItem{Name: name, UnitPrice: unitPrice, Quantity: 1}
		li.recompute()
		items = append(items, li)
	}

	if err := s.saveCart(ctx, items); err != nil {
		return Event{}, err
	}
	return Event{Kind: EventItemAdded, Item: name, Quantity: qty}, nil
}

// RemoveItem drops the line for name. Removing an absent name is not an
// error and reports EventItemNotInCart.
func (s *Service) RemoveItem(ctx context.Context, name string) (Event, error) {
	items, err := s.loadCart(ctx)
	if err != nil {
		return Event{}, err
	}

	kind := EventItemNotInCart
	if i := indexOf(items, name); i >= 0 {
		items = slices.Delete(items, i, i+1)
		kind = EventItemRemoved
	}

	if err := s.saveCart(ctx, items); err != nil {
		return Event{}, err
	}
	return Event{Kind: kind, Item: name}, nil
}

// ClearCart empties the cart. It never reads the stored cart, so it also
// resets one that is corrupt.
func (s *Service) ClearCart(ctx context.Context) (Event, error) {
	if err := s.saveCart(ctx, []LineItem{}); err != nil {
		return Event{}, err
	}
	return Event{Kind: EventCartCleared}, nil
}

// CartView returns the items in insertion order with their total. A store
// that cannot be read yields an empty cart.
func (s *Service) CartView(ctx context.Context) CartView {
	items := s.cartOrEmpty(ctx)
	return CartView{Items: items, Total: sum(items)}
}

// SubmitOrder moves the cart into the order log as a pending order. The
// customer fields are expected to be validated by the caller. A blank message
// is replaced by OrderMessage of the cart.
//
// The log is written before the cart is cleared. If the cart or the log cannot
// be read, or the log cannot be written, the cart is left untouched and
// ErrStoreUnavailable is returned. If
// only the cart clear fails the order is returned with ErrPartialSubmission.
func (s *Service) SubmitOrder(ctx context.Context, customer Customer, message string) (Order, error) {
	items, err := s.loadCart(ctx)
	if err != nil {
		s.log.Error(ctx, "cart unreadable, refusing submission", "error", err)
		return Order{}, err
	}
	view := CartView{Items: items, Total: sum(items)}
	if view.Empty() {
		return Order{}, ErrEmptyCart
	}

	orders, err := s.loadOrders(ctx)
	if err != nil {
		s.log.Error(ctx, "order log unreadable, refusing submission", "error", err)
		return Order{}, err
	}

	if strings.TrimSpace(message) == "" {
		message = OrderMessage(view)
	}
	at := s.now().UTC()
	o := Order{
		ID:          s.uniqueID(orders, at),
		Customer:    customer,
		Message:     message,
		Status:      StatusPending,
		SubmittedAt: at,
		Items:       view.Items,
		Total:       view.Total,
	}

	raw, err := encode(append(orders, o))
	if err != nil {
		return Order{}, fmt.Errorf("encode order log: %w", err)
	}
	if err := s.store.Set(ctx, s.orderKey, raw); err != nil {
		s.log.Error(ctx, "append order", "order_id", o.ID, "error", err)
		return Order{}, fmt.Errorf("%w: append order: %w", ErrStoreUnavailable, err)
	}

	if err := s.saveCart(ctx, []LineItem{}); err != nil {
		s.log.Error(ctx, "order recorded but cart not cleared", "order_id", o.ID, "error", err)
		return o, fmt.Errorf("%w: %w", ErrPartialSubmission, err)
	}
	s.log.Info(ctx, "order submitted", "order_id", o.ID, "items", len(o.Items), "total", o.Total.StringFixed(2))
	return o, nil
}

// ListOrders returns every order, newest first. Orders submitted at the same
// instant keep their log order. A store that cannot be read yields an empty
// list.
func (s *Service) ListOrders(ctx context.Context) []Order {
	orders, err := s.loadOrders(ctx)
	if err != nil {
		s.log.Warn(ctx, "order log unreadable, listing none", "error", err)
		return []Order{}
	}
	slices.SortStableFunc(orders, func(a, b Order) int {
		return b.SubmittedAt.Compare(a.SubmittedAt)
	})
	return orders
}

func (s *Service) cartOrEmpty(ctx context.Context) []LineItem {
	items, err := s.loadCart(ctx)
	if err != nil {
		s.log.Warn(ctx, "cart unreadable, using empty cart", "key", s.cartKey, "error", err)
		return []LineItem{}
	}
	return items
}

// loadCart reads the stored cart. A missing key is an empty cart; any other
// failure is returned wrapped in ErrStoreUnavailable.
func (s *Service) loadCart(ctx context.Context) ([]LineItem, error) {
	raw, err := s.store.Get(ctx, s.cartKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []LineItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read cart: %w", ErrStoreUnavailable, err)
	}
	return decodeItems(raw)
}

func (s *Service) saveCart(ctx context.Context, items []LineItem) error {
	raw, err := encode(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.store.Set(ctx, s.cartKey, raw); err != nil {
		s.log.Error(ctx, "save cart", "key", s.cartKey, "error", err)
		return fmt.Errorf("%w: save cart: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Service) loadOrders(ctx context.Context) ([]Order, error) {
	raw, err := s.store.Get(ctx, s.orderKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read order log: %w", ErrStoreUnavailable, err)
	}
	return decodeOrders(raw)
}

func (s *Service) uniqueID(existing []Order, at time.Time) string {
	stamped := func() string { return orderIDAt(at) }
	next := s.newID
	if next == nil {
		next = stamped
	}
	for attempt := 0; ; attempt++ {
		if attempt == 3 {
			next = stamped
		}
		id := next()
		if !slices.ContainsFunc(existing, func(o Order) bool { return o.ID == id }) {
			return id
		}
	}
}

func indexOf(items []LineItem, name string) int {
	return slices.IndexFunc(items, func(li LineItem) bool { return li.Name == name })
}
