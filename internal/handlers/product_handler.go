package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopease/storefront/internal/models"
	"github.com/shopease/storefront/internal/repository"
	"github.com/shopease/storefront/internal/service"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /api/product
// The query string builds the filter/sort selection:
// category, min_price, max_price, q (search text), sort (price_asc,
// price_desc, rating). Unknown sort keys leave the catalog order unchanged.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	spec := models.FilterSpec{
		Category: query.Get("category"),
		MinPrice: query.Get("min_price"),
		MaxPrice: query.Get("max_price"),
		Search:   query.Get("q"),
		Sort:     models.SortKey(query.Get("sort")),
	}

	products, err := h.service.ListProducts(r.Context(), spec)
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

// GetProduct handles GET /api/product/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		h.logger.Warn("product ID is required")
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			h.logger.Info("product not found", "product_id", productID)
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}

		h.logger.Error("failed to get product", "product_id", productID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// ListCategories handles GET /api/category
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.service.Categories(), h.logger)
}
