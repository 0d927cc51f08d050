package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shopease/storefront/internal/cart"
	"github.com/shopease/storefront/internal/middleware"
	"github.com/shopease/storefront/internal/models"
	"github.com/shopease/storefront/internal/repository"
	"github.com/shopease/storefront/internal/service"
)

// CartHandler handles cart-related HTTP requests. All routes require an
// authenticated user; the user ID comes from the request context.
type CartHandler struct {
	carts *service.CartService
	log   *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *service.CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{
		carts: carts,
		log:   log,
	}
}

// cartItemResponse is one cart line as rendered to the client.
type cartItemResponse struct {
	Product   models.Product  `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// cartResponse is the full cart view with derived totals.
type cartResponse struct {
	Items  []cartItemResponse `json:"items"`
	Totals cart.Totals        `json:"totals"`
}

// ViewCart handles GET /api/cart
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	lines, totals, err := h.carts.View(r.Context(), userID)
	if err != nil {
		h.log.Error("failed to view cart", "user_id", userID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	items := make([]cartItemResponse, 0, len(lines))
	for _, line := range lines {
		items = append(items, cartItemResponse{
			Product:   line.Product,
			Quantity:  line.Quantity,
			LineTotal: line.Subtotal(),
		})
	}

	WriteJSON(w, http.StatusOK, cartResponse{Items: items, Totals: totals}, h.log)
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode add item request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if req.ProductID == "" {
		WriteError(w, http.StatusBadRequest, "product_id is required", h.log)
		return
	}

	quantity, err := h.carts.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			WriteError(w, http.StatusNotFound, "Product not found", h.log)
		case errors.Is(err, cart.ErrOutOfStock):
			WriteError(w, http.StatusConflict, "Product is out of stock", h.log)
		default:
			h.log.Error("failed to add cart item", "user_id", userID, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": req.ProductID,
		"quantity":   quantity,
	}, h.log)
}

// UpdateItem handles PUT /api/cart/items/{productId}
// A quantity above stock is clamped silently; zero or less removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	productID := chi.URLParam(r, "productId")

	var req models.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode update item request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	quantity, present, err := h.carts.UpdateItem(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		h.log.Error("failed to update cart item", "user_id", userID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
		"removed":    !present,
	}, h.log)
}

// RemoveItem handles DELETE /api/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	productID := chi.URLParam(r, "productId")

	h.carts.RemoveItem(userID, productID)
	w.WriteHeader(http.StatusNoContent)
}
