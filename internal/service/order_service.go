package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopease/storefront/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderService turns checked-out carts into stored orders and serves order
// history. Orders live in memory for the lifetime of the process; durable
// persistence belongs to the fulfilment side.
type OrderService struct {
	carts *CartService
	log   *slog.Logger

	mu     sync.RWMutex
	orders map[string]models.Order
	byUser map[string][]string
}

// NewOrderService creates a new order service.
func NewOrderService(carts *CartService, log *slog.Logger) *OrderService {
	return &OrderService{
		carts:  carts,
		log:    log,
		orders: make(map[string]models.Order),
		byUser: make(map[string][]string),
	}
}

// Checkout places an order from the user's current cart. The cart is
// reconciled against stock, priced, and cleared; the resulting order is
// recorded as pending.
func (s *OrderService) Checkout(ctx context.Context, userID, address, payment string) (*models.Order, error) {
	payload, err := s.carts.Checkout(ctx, userID, address, payment)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           payload.Items,
		Subtotal:        payload.Totals.Subtotal,
		ShippingCost:    payload.Totals.Shipping,
		Tax:             payload.Totals.Tax,
		TotalAmount:     payload.Totals.GrandTotal,
		ShippingAddress: payload.ShippingAddress,
		PaymentMethod:   payload.PaymentMethod,
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	s.mu.Lock()
	s.orders[order.ID] = order
	s.byUser[userID] = append(s.byUser[userID], order.ID)
	s.mu.Unlock()

	s.log.Info("order placed",
		"order_id", order.ID,
		"user_id", userID,
		"items_count", len(order.Items),
		"total_amount", order.TotalAmount.String(),
	)

	return &order, nil
}

// GetOrder returns one of the user's orders by ID. Orders belonging to other
// users are reported as not found.
func (s *OrderService) GetOrder(userID, orderID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.orders[orderID]
	if !exists || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// ListOrders returns the user's order history, newest first.
func (s *OrderService) ListOrders(userID string) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	orders := make([]models.Order, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		orders = append(orders, s.orders[ids[i]])
	}
	return orders
}
