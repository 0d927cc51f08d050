package service

import (
	"context"

	"github.com/shopease/storefront/internal/catalog"
	"github.com/shopease/storefront/internal/models"
	"github.com/shopease/storefront/internal/repository"
)

// CatalogService handles business logic for the product catalog.
type CatalogService struct {
	repo repository.ProductRepository
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.ProductRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// ListProducts returns the catalog snapshot reduced by the given filter/sort
// selection.
func (s *CatalogService) ListProducts(ctx context.Context, spec models.FilterSpec) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Apply(products, spec), nil
}

// GetProduct returns a product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Categories returns the fixed category set, with the "All" selector first.
func (s *CatalogService) Categories() []string {
	return append([]string{models.CategoryAll}, models.Categories...)
}
