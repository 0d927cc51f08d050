package cart

import (
	"errors"
	"iter"

	"github.com/shopspring/decimal"

	"github.com/shopease/storefront/internal/models"
)

var (
	// ErrOutOfStock is returned when adding a product with no stock left.
	ErrOutOfStock = errors.New("product is out of stock")
	// ErrEmptyCart is returned when building an order from an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMissingAddress is returned when the shipping address is blank.
	ErrMissingAddress = errors.New("shipping address is required")
)

// Lookup resolves a product ID against the latest catalog snapshot. The cart
// only stores quantities; product data always comes from the caller.
type Lookup func(productID string) (models.Product, bool)

// Line is one cart entry joined with its product data.
type Line struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Subtotal is the line's price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds one shopper's pending items, keyed by product ID. A line exists
// only with a positive quantity no greater than the stock seen at its last
// update; quantities reaching zero delete the line. Cart methods are the only
// way to change that state.
//
// The cart itself is not safe for concurrent use; callers that share carts
// across requests serialize access.
type Cart struct {
	qty   map[string]int
	order []string // product IDs in insertion order
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{
		qty: make(map[string]int),
	}
}

// AddOrIncrement adds qty of a product, creating the line if needed. The
// resulting quantity is clamped to stock. A non-positive qty counts as 1.
// Returns the line's resulting quantity, or ErrOutOfStock when stock is zero.
func (c *Cart) AddOrIncrement(productID string, qty, stock int) (int, error) {
	if stock <= 0 {
		return 0, ErrOutOfStock
	}
	if qty <= 0 {
		qty = 1
	}

	current, exists := c.qty[productID]
	next := min(current+qty, stock)

	if !exists {
		c.order = append(c.order, productID)
	}
	c.qty[productID] = next

	return next, nil
}

// SetQuantity sets a line's quantity, clamped to stock. The clamp is silent:
// asking for more than stock is not an error. A non-positive qty (or zero
// stock) removes the line. Returns the resulting quantity and whether the
// line still exists.
func (c *Cart) SetQuantity(productID string, qty, stock int) (int, bool) {
	next := min(qty, stock)
	if next <= 0 {
		c.Remove(productID)
		return 0, false
	}

	if _, exists := c.qty[productID]; !exists {
		c.order = append(c.order, productID)
	}
	c.qty[productID] = next

	return next, true
}

// Remove deletes a line. Removing an absent line is a no-op.
func (c *Cart) Remove(productID string) {
	if _, exists := c.qty[productID]; !exists {
		return
	}
	delete(c.qty, productID)

	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Quantity reports a line's quantity and presence.
func (c *Cart) Quantity(productID string) (int, bool) {
	q, ok := c.qty[productID]
	return q, ok
}

// Len is the number of lines in the cart.
func (c *Cart) Len() int {
	return len(c.qty)
}

// Lines yields the cart's entries in insertion order, joined with product
// data from lookup. The sequence is read-only and restartable; entries whose
// product is missing from the snapshot are skipped.
func (c *Cart) Lines(lookup Lookup) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for _, id := range c.order {
			qty, ok := c.qty[id]
			if !ok {
				continue
			}
			product, ok := lookup(id)
			if !ok {
				continue
			}
			if !yield(Line{Product: product, Quantity: qty}) {
				return
			}
		}
	}
}

// Reconcile brings every line back within the current snapshot: lines whose
// product vanished or sold out are dropped, the rest are clamped to current
// stock. Returns the IDs of lines that changed. Must run before an order is
// built from the cart.
func (c *Cart) Reconcile(lookup Lookup) []string {
	var affected []string

	for _, id := range append([]string(nil), c.order...) {
		qty := c.qty[id]

		product, ok := lookup(id)
		if !ok || product.Stock <= 0 {
			c.Remove(id)
			affected = append(affected, id)
			continue
		}
		if qty > product.Stock {
			c.qty[id] = product.Stock
			affected = append(affected, id)
		}
	}

	return affected
}
