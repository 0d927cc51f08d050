package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/shopease/storefront/internal/cart"
	"github.com/shopease/storefront/internal/models"
	"github.com/shopease/storefront/internal/repository"
)

// CartService owns every shopper's session cart. The cart engine itself is
// single-threaded; this layer serializes access across HTTP requests and
// supplies the latest stock value before every mutation, so a clamp never
// works from data older than the current snapshot.
type CartService struct {
	repo     repository.ProductRepository
	shipping decimal.Decimal
	taxRate  decimal.Decimal
	log      *slog.Logger

	mu    sync.Mutex
	carts map[string]*cart.Cart

	scheduler *cron.Cron
}

// NewCartService creates a cart service pricing carts with the given flat
// shipping cost and tax rate.
func NewCartService(repo repository.ProductRepository, shipping, taxRate decimal.Decimal, log *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		shipping: shipping,
		taxRate:  taxRate,
		log:      log,
		carts:    make(map[string]*cart.Cart),
	}
}

// AddItem adds qty of a product to the user's cart, clamped to current
// stock. Returns the resulting line quantity.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, qty int) (int, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLocked(userID).AddOrIncrement(productID, qty, product.Stock)
}

// UpdateItem sets a line's quantity, clamped to current stock; a
// non-positive quantity removes the line. If the product has vanished from
// the catalog, the line is dropped. Returns the resulting quantity and
// whether the line remains.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, qty int) (int, bool, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.cartLocked(userID).Remove(productID)
			return 0, false, nil
		}
		return 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	resulting, present := s.cartLocked(userID).SetQuantity(productID, qty, product.Stock)
	return resulting, present, nil
}

// RemoveItem deletes a line from the user's cart. Idempotent.
func (s *CartService) RemoveItem(userID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartLocked(userID).Remove(productID)
}

// View returns the cart's lines joined with current product data, plus the
// priced totals. Totals are derived on every call.
func (s *CartService) View(ctx context.Context, userID string) ([]cart.Line, cart.Totals, error) {
	lookup, err := s.lookup(ctx)
	if err != nil {
		return nil, cart.Totals{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(userID)
	lines := make([]cart.Line, 0, c.Len())
	for line := range c.Lines(lookup) {
		lines = append(lines, line)
	}

	return lines, cart.Total(c.Lines(lookup), s.shipping, s.taxRate), nil
}

// Checkout reconciles the cart against current stock, builds the order
// payload, and clears the cart on success.
func (s *CartService) Checkout(ctx context.Context, userID, address, payment string) (*cart.OrderPayload, error) {
	lookup, err := s.lookup(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(userID)
	if affected := c.Reconcile(lookup); len(affected) > 0 {
		s.log.Info("cart reconciled before checkout",
			"user_id", userID,
			"affected_products", affected,
		)
	}

	payload, err := cart.BuildOrderPayload(c.Lines(lookup), address, payment, s.shipping, s.taxRate)
	if err != nil {
		return nil, err
	}

	delete(s.carts, userID)
	return payload, nil
}

// ReconcileAll clamps every session cart against the current catalog
// snapshot. Run periodically so carts do not drift from stock between user
// actions.
func (s *CartService) ReconcileAll(ctx context.Context) {
	lookup, err := s.lookup(ctx)
	if err != nil {
		s.log.Error("reconcile sweep failed to load catalog", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, c := range s.carts {
		if affected := c.Reconcile(lookup); len(affected) > 0 {
			s.log.Info("cart reconciled",
				"user_id", userID,
				"affected_products", affected,
			)
		}
		if c.Len() == 0 {
			delete(s.carts, userID)
		}
	}
}

// StartReconcileSweep schedules ReconcileAll on the given cron spec,
// e.g. "@every 1m".
func (s *CartService) StartReconcileSweep(spec string) error {
	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(spec, func() {
		s.ReconcileAll(context.Background())
	}); err != nil {
		return err
	}

	s.scheduler.Start()
	s.log.Info("cart reconcile sweep started", "spec", spec)
	return nil
}

// StopReconcileSweep stops the sweep scheduler if it is running.
func (s *CartService) StopReconcileSweep() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// cartLocked returns the user's cart, creating it on first use.
// Callers hold s.mu.
func (s *CartService) cartLocked(userID string) *cart.Cart {
	c, exists := s.carts[userID]
	if !exists {
		c = cart.New()
		s.carts[userID] = c
	}
	return c
}

// lookup builds a product lookup over the current catalog snapshot.
func (s *CartService) lookup(ctx context.Context) (cart.Lookup, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	return func(productID string) (models.Product, bool) {
		p, ok := byID[productID]
		return p, ok
	}, nil
}
