package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopease/storefront/internal/cart"
	"github.com/shopease/storefront/internal/middleware"
	"github.com/shopease/storefront/internal/models"
	"github.com/shopease/storefront/internal/service"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orders *service.OrderService
	log    *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		log:    log,
	}
}

// Checkout handles POST /api/order
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode checkout request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCreditCard
	}

	order, err := h.orders.Checkout(r.Context(), userID, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrEmptyCart):
			WriteError(w, http.StatusBadRequest, "Your cart is empty", h.log)
		case errors.Is(err, cart.ErrMissingAddress):
			WriteError(w, http.StatusBadRequest, "Please enter a shipping address", h.log)
		default:
			h.log.Error("failed to place order", "user_id", userID, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// GetOrder handles GET /api/order/{orderId}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	orderID := chi.URLParam(r, "orderId")

	order, err := h.orders.GetOrder(userID, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			WriteError(w, http.StatusNotFound, "Order not found", h.log)
			return
		}

		h.log.Error("failed to get order", "user_id", userID, "order_id", orderID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// ListOrders handles GET /api/order
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	WriteJSON(w, http.StatusOK, h.orders.ListOrders(userID), h.log)
}
