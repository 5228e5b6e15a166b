package order

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ErrStoreUnavailable, ErrCorrupt, fmt.Sprintf(format, args...))
}

// decodeItems parses a stored cart. Totals are recomputed from price and
// quantity; stored lineTotal values are ignored.
func decodeItems(raw string) ([]LineItem, error) {
	items := []LineItem{}
	if strings.TrimSpace(raw) == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, corrupt("cart: %v", err)
	}
	if items == nil {
		items = []LineItem{}
	}
	if err := checkItems(items); err != nil {
		return nil, err
	}
	return items, nil
}

func checkItems(items []LineItem) error {
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		if err := validate.Struct(items[i]); err != nil {
			return corrupt("line item %d: %v", i, err)
		}
		if items[i].UnitPrice.IsNegative() {
			return corrupt("line item %q: negative unitPrice", items[i].Name)
		}
		if _, dup := seen[items[i].Name]; dup {
			return corrupt("line item %q: duplicate name", items[i].Name)
		}
		seen[items[i].Name] = struct{}{}
		items[i].recompute()
	}
	return nil
}

func decodeOrders(raw string) ([]Order, error) {
	orders := []Order{}
	if strings.TrimSpace(raw) == "" {
		return orders, nil
	}
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		return nil, corrupt("order log: %v", err)
	}
	if orders == nil {
		orders = []Order{}
	}
	for i := range orders {
		o := &orders[i]
		if err := validate.Struct(o); err != nil {
			return nil, corrupt("order %d: %v", i, err)
		}
		status, err := ParseStatus(string(o.Status))
		if err != nil {
			return nil, corrupt("order %s: %v", o.ID, err)
		}
		o.Status = status
		if err := checkItems(o.Items); err != nil {
			return nil, err
		}
		if o.Items == nil {
			o.Items = []LineItem{}
		}
		o.Total = sum(o.Items)
	}
	return orders, nil
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func sum(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}
	return total
}
