package cart

import (
	"iter"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopease/storefront/internal/models"
)

// Totals is the monetary breakdown of a cart at checkout time. Values are
// exact decimals; rounding to two digits is the presentation layer's job and
// never feeds back into stored totals.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"shipping"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Total prices a line sequence: subtotal is the sum of price times quantity,
// tax is subtotal times taxRate, and the grand total adds the flat shipping
// cost. Pure; recomputed on every call, never cached.
func Total(lines iter.Seq[Line], shipping, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}

	tax := subtotal.Mul(taxRate)

	return Totals{
		Subtotal:   subtotal,
		Shipping:   shipping,
		Tax:        tax,
		GrandTotal: subtotal.Add(shipping).Add(tax),
	}
}

// OrderPayload is the immutable structure handed to the order-submission
// collaborator. The engine builds it; it does not place the order.
type OrderPayload struct {
	Items           []models.OrderItem
	Totals          Totals
	ShippingAddress string
	PaymentMethod   string
}

// BuildOrderPayload turns the cart's lines into an order submission.
// Fails with ErrEmptyCart when there are no lines and ErrMissingAddress when
// the shipping address is blank or whitespace-only.
func BuildOrderPayload(lines iter.Seq[Line], address, payment string, shipping, taxRate decimal.Decimal) (*OrderPayload, error) {
	var items []models.OrderItem
	for line := range lines {
		items = append(items, models.OrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
		})
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if strings.TrimSpace(address) == "" {
		return nil, ErrMissingAddress
	}

	return &OrderPayload{
		Items:           items,
		Totals:          Total(lines, shipping, taxRate),
		ShippingAddress: address,
		PaymentMethod:   payment,
	}, nil
}
