package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shopease/storefront/internal/cart"
	"github.com/shopease/storefront/internal/models"
	"github.com/shopease/storefront/internal/repository"
	"github.com/shopease/storefront/pkg/logger"
)

func testRepo() *repository.InMemoryProductRepository {
	return repository.NewProductRepositoryFrom([]models.Product{
		{ID: "1", Name: "Mystery Novel", Category: "Books", Price: decimal.RequireFromString("10.00"), Stock: 3},
		{ID: "2", Name: "Wooden Train", Category: "Toys", Price: decimal.RequireFromString("20.00"), Stock: 10},
		{ID: "3", Name: "Chess Set", Category: "Toys", Price: decimal.RequireFromString("45.00"), Stock: 0},
	})
}

func newTestCartService(repo *repository.InMemoryProductRepository) *CartService {
	return NewCartService(
		repo,
		decimal.RequireFromString("5.99"),
		decimal.RequireFromString("0.10"),
		logger.New("error"),
	)
}

func TestCartService_AddItem(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		qty       int
		wantQty   int
		wantErr   error
	}{
		{
			name:      "add within stock",
			productID: "2",
			qty:       2,
			wantQty:   2,
		},
		{
			name:      "add clamps to stock",
			productID: "1",
			qty:       5,
			wantQty:   3,
		},
		{
			name:      "out of stock",
			productID: "3",
			qty:       1,
			wantErr:   cart.ErrOutOfStock,
		},
		{
			name:      "unknown product",
			productID: "99",
			qty:       1,
			wantErr:   repository.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestCartService(testRepo())

			got, err := svc.AddItem(context.Background(), "user-1", tt.productID, tt.qty)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("AddItem() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("AddItem() unexpected error: %v", err)
			}
			if got != tt.wantQty {
				t.Errorf("AddItem() quantity = %d, want %d", got, tt.wantQty)
			}
		})
	}
}

func TestCartService_UpdateItem(t *testing.T) {
	svc := newTestCartService(testRepo())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "user-1", "2", 2); err != nil {
		t.Fatalf("AddItem() unexpected error: %v", err)
	}

	// Clamp above stock is silent.
	qty, present, err := svc.UpdateItem(ctx, "user-1", "2", 50)
	if err != nil {
		t.Fatalf("UpdateItem() unexpected error: %v", err)
	}
	if !present || qty != 10 {
		t.Errorf("UpdateItem() = (%d, %v), want (10, true)", qty, present)
	}

	// Zero removes.
	_, present, err = svc.UpdateItem(ctx, "user-1", "2", 0)
	if err != nil {
		t.Fatalf("UpdateItem() unexpected error: %v", err)
	}
	if present {
		t.Error("UpdateItem() with zero quantity should remove the line")
	}

	// Vanished product drops the line instead of failing.
	if _, err := svc.AddItem(ctx, "user-1", "1", 1); err != nil {
		t.Fatalf("AddItem() unexpected error: %v", err)
	}
	_, present, err = svc.UpdateItem(ctx, "user-1", "99", 2)
	if err != nil {
		t.Fatalf("UpdateItem() unexpected error for vanished product: %v", err)
	}
	if present {
		t.Error("UpdateItem() for unknown product should report the line gone")
	}
}

func TestCartService_ViewTotals(t *testing.T) {
	svc := newTestCartService(testRepo())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "user-1", "1", 2); err != nil { // 20.00
		t.Fatalf("AddItem() unexpected error: %v", err)
	}
	if _, err := svc.AddItem(ctx, "user-1", "2", 4); err != nil { // 80.00
		t.Fatalf("AddItem() unexpected error: %v", err)
	}

	lines, totals, err := svc.View(ctx, "user-1")
	if err != nil {
		t.Fatalf("View() unexpected error: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("View() returned %d lines, want 2", len(lines))
	}
	if lines[0].Product.ID != "1" || lines[1].Product.ID != "2" {
		t.Errorf("View() lines out of insertion order: %s, %s", lines[0].Product.ID, lines[1].Product.ID)
	}

	if want := decimal.RequireFromString("100.00"); !totals.Subtotal.Equal(want) {
		t.Errorf("subtotal = %s, want %s", totals.Subtotal, want)
	}
	if want := decimal.RequireFromString("10.00"); !totals.Tax.Equal(want) {
		t.Errorf("tax = %s, want %s", totals.Tax, want)
	}
	if want := decimal.RequireFromString("115.99"); !totals.GrandTotal.Equal(want) {
		t.Errorf("grand total = %s, want %s", totals.GrandTotal, want)
	}
}

func TestCartService_ViewEmptyCart(t *testing.T) {
	svc := newTestCartService(testRepo())

	lines, totals, err := svc.View(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("View() unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("View() returned %d lines, want 0", len(lines))
	}
	if !totals.Subtotal.IsZero() {
		t.Errorf("subtotal = %s, want 0", totals.Subtotal)
	}
}

func TestCartService_Checkout(t *testing.T) {
	svc := newTestCartService(testRepo())
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		_, err := svc.Checkout(ctx, "user-1", "12 Elm Street", "Credit Card")
		if !errors.Is(err, cart.ErrEmptyCart) {
			t.Errorf("Checkout() error = %v, want %v", err, cart.ErrEmptyCart)
		}
	})

	t.Run("missing address", func(t *testing.T) {
		if _, err := svc.AddItem(ctx, "user-2", "2", 1); err != nil {
			t.Fatalf("AddItem() unexpected error: %v", err)
		}
		_, err := svc.Checkout(ctx, "user-2", "   ", "Credit Card")
		if !errors.Is(err, cart.ErrMissingAddress) {
			t.Errorf("Checkout() error = %v, want %v", err, cart.ErrMissingAddress)
		}
	})

	t.Run("success clears the cart", func(t *testing.T) {
		if _, err := svc.AddItem(ctx, "user-3", "2", 2); err != nil {
			t.Fatalf("AddItem() unexpected error: %v", err)
		}

		payload, err := svc.Checkout(ctx, "user-3", "12 Elm Street", "PayPal")
		if err != nil {
			t.Fatalf("Checkout() unexpected error: %v", err)
		}
		if len(payload.Items) != 1 || payload.Items[0].Quantity != 2 {
			t.Errorf("Checkout() payload items = %+v", payload.Items)
		}

		lines, _, err := svc.View(ctx, "user-3")
		if err != nil {
			t.Fatalf("View() unexpected error: %v", err)
		}
		if len(lines) != 0 {
			t.Errorf("cart should be empty after checkout, has %d lines", len(lines))
		}
	})
}

func TestCartService_CheckoutReconcilesStock(t *testing.T) {
	repo := testRepo()
	svc := newTestCartService(repo)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "user-1", "2", 8); err != nil {
		t.Fatalf("AddItem() unexpected error: %v", err)
	}

	// Stock drops before checkout; the order must not exceed it.
	repo.Replace([]models.Product{
		{ID: "2", Name: "Wooden Train", Category: "Toys", Price: decimal.RequireFromString("20.00"), Stock: 3},
	})

	payload, err := svc.Checkout(ctx, "user-1", "12 Elm Street", "Credit Card")
	if err != nil {
		t.Fatalf("Checkout() unexpected error: %v", err)
	}
	if payload.Items[0].Quantity != 3 {
		t.Errorf("checked-out quantity = %d, want clamped 3", payload.Items[0].Quantity)
	}
}

func TestCartService_ReconcileAll(t *testing.T) {
	repo := testRepo()
	svc := newTestCartService(repo)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "user-1", "2", 8); err != nil {
		t.Fatalf("AddItem() unexpected error: %v", err)
	}
	if _, err := svc.AddItem(ctx, "user-2", "1", 2); err != nil {
		t.Fatalf("AddItem() unexpected error: %v", err)
	}

	// Product 1 vanishes, product 2 drops to 5.
	repo.Replace([]models.Product{
		{ID: "2", Name: "Wooden Train", Category: "Toys", Price: decimal.RequireFromString("20.00"), Stock: 5},
	})

	svc.ReconcileAll(ctx)

	lines, _, err := svc.View(ctx, "user-1")
	if err != nil {
		t.Fatalf("View() unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 5 {
		t.Errorf("user-1 lines after sweep = %+v, want one line of 5", lines)
	}

	lines, _, err = svc.View(ctx, "user-2")
	if err != nil {
		t.Fatalf("View() unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("user-2 should have an empty cart after sweep, has %d lines", len(lines))
	}
}
