package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"brewcart/pkg/form"
	"brewcart/pkg/kv"
	"brewcart/pkg/logger"
	"brewcart/pkg/metrics"
	"brewcart/pkg/order"
	"brewcart/pkg/otel"
	"brewcart/pkg/session"
)

type sessionKey struct{}

// api hosts the menu, contact form and admin collaborators on top of the
// order service.
type api struct {
	store      kv.Store
	sessions   session.Registry
	metrics    *metrics.Metrics
	log        *logger.Logger
	cookieName string
	sessionTTL time.Duration
}

// addItemRequest is a catalog item chosen from the menu.
type addItemRequest struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type cartResponse struct {
	Items  []order.LineItem `json:"items"`
	Total  decimal.Decimal  `json:"total"`
	Count  int              `json:"count"`
	Notice string           `json:"notice,omitempty"`
}

type orderResponse struct {
	Order   order.Order `json:"order"`
	Notice  string      `json:"notice"`
	Warning string      `json:"warning,omitempty"`
}

type orderRow struct {
	order.Order
	StatusClass string `json:"statusClass"`
}

type adminOrdersResponse struct {
	Orders []orderRow `json:"orders"`
	Count  int        `json:"count"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (a *api) service(ctx context.Context) *order.Service {
	sid, _ := ctx.Value(sessionKey{}).(string)
	return order.NewService(a.store,
		order.WithLogger(a.log),
		order.WithCartKey(order.CartKey+":"+sid),
	)
}

// sessionMiddleware ensures every request carries a live session id.
func (a *api) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sid := ""
		if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" {
			ok, err := a.sessions.Exists(ctx, c.Value)
			if err != nil {
				a.log.Error(ctx, "session lookup", "error", err)
				writeError(w, http.StatusServiceUnavailable, "session store unavailable")
				return
			}
			if ok {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = session.NewID()
		}
		if err := a.sessions.Touch(ctx, sid); err != nil {
			a.log.Error(ctx, "session touch", "error", err)
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     a.cookieName,
			Value:    sid,
			Path:     "/",
			Expires:  time.Now().Add(a.sessionTTL),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionKey{}, sid)))
	})
}

// getCartHandler returns the current cart.
// @Summary Get cart
// @Produce json
// @Success 200 {object} cartResponse
// @Router /cart [get]
func (a *api) getCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getCartHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, newCartResponse(a.service(ctx).CartView(ctx), ""))
}

// addItemHandler adds one unit of a menu item to the cart.
// @Summary Add item
// @Accept json
// @Produce json
// @Param item body addItemRequest true "Item"
// @Success 200 {object} cartResponse
// @Router /cart/items [post]
func (a *api) addItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addItemHandler")
	defer span.End()

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.UnitPrice.IsNegative() {
		writeError(w, http.StatusBadRequest, "name is required and unitPrice must not be negative")
		return
	}
	span.SetAttributes(attribute.String("item", req.Name))

	svc := a.service(ctx)
	ev, err := svc.AddItem(ctx, req.Name, req.UnitPrice)
	if err != nil {
		a.storeError(ctx, w, "add item", err)
		return
	}
	a.metrics.IncCartEvent(string(ev.Kind))
	writeJSON(w, http.StatusOK, newCartResponse(svc.CartView(ctx), notice(ev)))
}

// removeItemHandler removes a line from the cart.
// @Summary Remove item
// @Produce json
// @Param name path string true "Item name"
// @Success 200 {object} cartResponse
// @Router /cart/items/{name} [delete]
func (a *api) removeItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeItemHandler")
	defer span.End()

	svc := a.service(ctx)
	ev, err := svc.RemoveItem(ctx, mux.Vars(r)["name"])
	if err != nil {
		a.storeError(ctx, w, "remove item", err)
		return
	}
	a.metrics.IncCartEvent(string(ev.Kind))
	writeJSON(w, http.StatusOK, newCartResponse(svc.CartView(ctx), notice(ev)))
}

// clearCartHandler empties the cart.
// @Summary Clear cart
// @Produce json
// @Success 200 {object} cartResponse
// @Router /cart [delete]
func (a *api) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "clearCartHandler")
	defer span.End()

	svc := a.service(ctx)
	ev, err := svc.ClearCart(ctx)
	if err != nil {
		a.storeError(ctx, w, "clear cart", err)
		return
	}
	a.metrics.IncCartEvent(string(ev.Kind))
	writeJSON(w, http.StatusOK, newCartResponse(svc.CartView(ctx), notice(ev)))
}

// cartMessageHandler returns the order text used to prefill the contact form.
// @Summary Cart message
// @Produce json
// @Success 200 {object} map[string]string
// @Router /cart/message [get]
func (a *api) cartMessageHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "cartMessageHandler")
	defer span.End()

	view := a.service(ctx).CartView(ctx)
	msg := ""
	if !view.Empty() {
		msg = order.OrderMessage(view)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// submitOrderHandler validates the contact form and submits the cart.
// @Summary Submit order
// @Accept json
// @Produce json
// @Param order body form.Submission true "Contact form"
// @Success 201 {object} orderResponse
// @Failure 409 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /orders [post]
func (a *api) submitOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "submitOrderHandler")
	defer span.End()

	var sub form.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sub.Validate(); err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: verr.Fields})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := a.service(ctx).SubmitOrder(ctx, sub.Customer(), sub.Normalize().Message)
	switch {
	case err == nil:
	case errors.Is(err, order.ErrEmptyCart):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, order.ErrPartialSubmission):
		a.metrics.IncOrders()
		writeJSON(w, http.StatusCreated, orderResponse{
			Order:   o,
			Notice:  confirmation(o),
			Warning: "Your order was received but the cart could not be cleared.",
		})
		return
	default:
		a.storeError(ctx, w, "submit order", err)
		return
	}
	span.SetAttributes(attribute.String("order_id", o.ID))
	a.metrics.IncOrders()
	writeJSON(w, http.StatusCreated, orderResponse{Order: o, Notice: confirmation(o)})
}

// listOrdersHandler lists submitted orders, newest first.
// @Summary List orders
// @Produce json
// @Success 200 {object} adminOrdersResponse
// @Router /admin/orders [get]
func (a *api) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	orders := a.service(ctx).ListOrders(ctx)
	rows := make([]orderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRow{Order: o, StatusClass: o.Status.Class()})
	}
	writeJSON(w, http.StatusOK, adminOrdersResponse{Orders: rows, Count: len(rows)})
}

func (a *api) storeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	a.log.Error(ctx, op, "error", err)
	if errors.Is(err, order.ErrStoreUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "order store unavailable, please try again")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}

func newCartResponse(v order.CartView, notice string) cartResponse {
	count := 0
	for _, it := range v.Items {
		count += it.Quantity
	}
	return cartResponse{Items: v.Items, Total: v.Total, Count: count, Notice: notice}
}

func notice(ev order.Event) string {
	switch ev.Kind {
	case order.EventItemAdded:
		return fmt.Sprintf("%s added to order!", ev.Item)
	case order.EventItemRemoved:
		return fmt.Sprintf("%s removed from order", ev.Item)
	case order.EventCartCleared:
		return "Order cleared"
	}
	return ""
}

func confirmation(o order.Order) string {
	return fmt.Sprintf("Thank you, %s! Your order has been received. We'll contact you shortly.", o.Customer.Name)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
