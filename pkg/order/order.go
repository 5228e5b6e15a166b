package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Store keys owned by the service.
const (
	CartKey     = "cart"
	OrderLogKey = "orderLog"
)

// LineItem is one catalog item and its quantity within a cart.
type LineItem struct {
	Name      string          `json:"name" validate:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

func (li *LineItem) recompute() {
	li.LineTotal = li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// CartView is the read model of a cart.
type CartView struct {
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Empty reports whether the cart has no items.
func (v CartView) Empty() bool {
	return len(v.Items) == 0
}

// Customer holds the contact fields collected by the order form.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Order is a submitted cart. Only Status may change after submission, and
// not through this package.
type Order struct {
	ID          string          `json:"id" validate:"required"`
	Customer    Customer        `json:"customer"`
	Message     string          `json:"message"`
	Status      Status          `json:"status" validate:"required"`
	SubmittedAt time.Time       `json:"submittedAt" validate:"required"`
	Items       []LineItem      `json:"items"`
	Total       decimal.Decimal `json:"total"`
}

// EventKind names a state change performed by the service.
type EventKind string

const (
	EventItemAdded      EventKind = "item_added"
	EventItemRemoved    EventKind = "item_removed"
	EventItemNotInCart  EventKind = "item_not_in_cart"
	EventCartCleared    EventKind = "cart_cleared"
	EventOrderSubmitted EventKind = "order_submitted"
)

// Event describes what a mutation did so callers can decide how to notify.
type Event struct {
	Kind     EventKind `json:"kind"`
	Item     string    `json:"item,omitempty"`
	Quantity int       `json:"quantity,omitempty"`
	OrderID  string    `json:"orderId,omitempty"`
}

var (
	// ErrStoreUnavailable indicates the key-value store could not be read or
	// written, or held a value that failed to decode.
	ErrStoreUnavailable = errors.New("order store unavailable")
	// ErrCorrupt indicates a stored document did not match the expected shape.
	ErrCorrupt = errors.New("stored document is corrupt")
	// ErrEmptyCart is returned when submitting a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPartialSubmission indicates the order was logged but the cart could
	// not be cleared.
	ErrPartialSubmission = errors.New("order recorded but cart not cleared")
)
