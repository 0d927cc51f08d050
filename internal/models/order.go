package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one (product, quantity) pair inside an order.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderStatus tracks an order after submission. This service only ever
// records orders as pending; fulfilment is handled elsewhere.
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
)

// Payment methods offered at checkout.
const (
	PaymentCreditCard     = "Credit Card"
	PaymentDebitCard      = "Debit Card"
	PaymentPayPal         = "PayPal"
	PaymentCashOnDelivery = "Cash on Delivery"
)

// Order is a stored order record.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Tax             decimal.Decimal `json:"tax"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AddItemRequest is the body for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest is the body for setting a cart line's quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutRequest is the body for placing an order from the current cart.
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}
