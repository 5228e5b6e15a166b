package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderMessage renders the cart as the default order message:
//
//	I'd like to order:
//
//	• 2x Latte - $9.00
//
//	Total: $9.00
func OrderMessage(v CartView) string {
	var b strings.Builder
	b.WriteString("I'd like to order:\n\n")
	for _, it := range v.Items {
		fmt.Fprintf(&b, "• %dx %s - %s\n", it.Quantity, it.Name, FormatPrice(it.LineTotal))
	}
	fmt.Fprintf(&b, "\nTotal: %s", FormatPrice(v.Total))
	return b.String()
}

// FormatPrice renders an amount as dollars with two decimals.
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
