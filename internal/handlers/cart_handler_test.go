package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shopease/storefront/internal/middleware"
	"github.com/shopease/storefront/internal/repository"
	"github.com/shopease/storefront/internal/service"
	"github.com/shopease/storefront/pkg/logger"
)

// asUser stands in for BearerAuth in tests, placing a fixed user on the
// context.
func asUser(userID string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}
}

func newCartRouter(userID string) *chi.Mux {
	repo := repository.NewInMemoryProductRepository()
	log := logger.New("error")
	carts := service.NewCartService(
		repo,
		decimal.RequireFromString("5.99"),
		decimal.RequireFromString("0.10"),
		log,
	)
	handler := NewCartHandler(carts, log)

	r := chi.NewRouter()
	r.Use(asUser(userID))
	r.Get("/api/cart", handler.ViewCart)
	r.Post("/api/cart/items", handler.AddItem)
	r.Put("/api/cart/items/{productId}", handler.UpdateItem)
	r.Delete("/api/cart/items/{productId}", handler.RemoveItem)
	return r
}

func TestCartFlow(t *testing.T) {
	r := newCartRouter("user-1")

	// Add a product
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
		strings.NewReader(`{"product_id":"1","quantity":2}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("add: expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	// View the cart
	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("view: expected status 200, got %d", w.Code)
	}

	var view cartResponse
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode cart response: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected 1 cart item, got %d", len(view.Items))
	}
	if view.Items[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", view.Items[0].Quantity)
	}
	// Wireless Earbuds at 49.99 x2 = 99.98
	if want := decimal.RequireFromString("99.98"); !view.Totals.Subtotal.Equal(want) {
		t.Errorf("subtotal = %s, want %s", view.Totals.Subtotal, want)
	}

	// Update the quantity
	req = httptest.NewRequest(http.MethodPut, "/api/cart/items/1",
		strings.NewReader(`{"quantity":1}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("update: expected status 200, got %d", w.Code)
	}

	// Remove the line
	req = httptest.NewRequest(http.MethodDelete, "/api/cart/items/1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("remove: expected status 204, got %d", w.Code)
	}

	// Cart is empty again
	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode cart response: %v", err)
	}
	if len(view.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(view.Items))
	}
}

func TestAddItem_Errors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "invalid body",
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing product id",
			body:           `{"quantity":1}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown product",
			body:           `{"product_id":"999","quantity":1}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			// Garden Tool Set is seeded with zero stock
			name:           "out of stock",
			body:           `{"product_id":"6","quantity":1}`,
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCartRouter("user-1")

			req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAddItem_ClampsToStock(t *testing.T) {
	r := newCartRouter("user-1")

	// Smart Watch has stock 10
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
		strings.NewReader(`{"product_id":"2","quantity":25}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Quantity != 10 {
		t.Errorf("expected clamped quantity 10, got %d", resp.Quantity)
	}
}

func TestUpdateItem_RemovesOnZero(t *testing.T) {
	r := newCartRouter("user-1")

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
		strings.NewReader(`{"product_id":"1","quantity":1}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("add: expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/cart/items/1",
		strings.NewReader(`{"quantity":0}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("update: expected status 200, got %d", w.Code)
	}

	var resp struct {
		Removed bool `json:"removed"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Removed {
		t.Error("expected the line to be reported removed")
	}
}

func TestCarts_ArePerUser(t *testing.T) {
	repo := repository.NewInMemoryProductRepository()
	log := logger.New("error")
	carts := service.NewCartService(
		repo,
		decimal.RequireFromString("5.99"),
		decimal.RequireFromString("0.10"),
		log,
	)
	handler := NewCartHandler(carts, log)

	newRouter := func(userID string) *chi.Mux {
		r := chi.NewRouter()
		r.Use(asUser(userID))
		r.Get("/api/cart", handler.ViewCart)
		r.Post("/api/cart/items", handler.AddItem)
		return r
	}
	alice := newRouter("alice")
	bob := newRouter("bob")

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
		strings.NewReader(`{"product_id":"1","quantity":1}`))
	w := httptest.NewRecorder()
	alice.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("add: expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w = httptest.NewRecorder()
	bob.ServeHTTP(w, req)

	var view cartResponse
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode cart response: %v", err)
	}
	if len(view.Items) != 0 {
		t.Errorf("bob's cart should be empty, has %d items", len(view.Items))
	}
}
