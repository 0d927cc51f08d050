package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/shopease/storefront/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// InMemoryProductRepository holds the latest catalog snapshot in memory.
// GetAll preserves catalog order, which is what an unsorted product listing
// displays. Replace swaps in a fresh snapshot on catalog refresh.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	byID     map[string]int
}

// NewInMemoryProductRepository creates a repository seeded with the demo
// catalog.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	r := &InMemoryProductRepository{}
	r.Replace(seedProducts())
	return r
}

// NewProductRepositoryFrom creates a repository over the given snapshot.
func NewProductRepositoryFrom(products []models.Product) *InMemoryProductRepository {
	r := &InMemoryProductRepository{}
	r.Replace(products)
	return r
}

// Replace swaps the current snapshot for a new one, keeping its order.
func (r *InMemoryProductRepository) Replace(products []models.Product) {
	snapshot := make([]models.Product, len(products))
	copy(snapshot, products)

	byID := make(map[string]int, len(snapshot))
	for i, p := range snapshot {
		byID[p.ID] = i
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = snapshot
	r.byID = byID
}

// GetAll returns the current snapshot in catalog order.
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, len(r.products))
	copy(products, r.products)
	return products, nil
}

// GetByID returns a product by its ID.
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, exists := r.byID[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	product := r.products[i]
	return &product, nil
}

func seedProducts() []models.Product {
	price := func(s string) decimal.Decimal {
		return decimal.RequireFromString(s)
	}

	return []models.Product{
		{ID: "1", Name: "Wireless Earbuds", Description: "Bluetooth earbuds with noise cancellation and charging case", Category: "Electronics", Price: price("49.99"), Stock: 25, Rating: 4.5, ReviewCount: 128, ImageURL: "/images/wireless-earbuds.jpg"},
		{ID: "2", Name: "Smart Watch", Description: "Fitness tracking watch with heart rate monitor", Category: "Electronics", Price: price("129.99"), Stock: 10, Rating: 4.2, ReviewCount: 86, ImageURL: "/images/smart-watch.jpg"},
		{ID: "3", Name: "Classic Denim Jacket", Description: "Unisex denim jacket with button front", Category: "Clothing", Price: price("59.99"), Stock: 18, Rating: 4.4, ReviewCount: 47, ImageURL: "/images/denim-jacket.jpg"},
		{ID: "4", Name: "Cotton T-Shirt", Description: "Soft crew-neck tee in plain colors", Category: "Clothing", Price: price("14.99"), Stock: 60, Rating: 4.1, ReviewCount: 203, ImageURL: "/images/cotton-tshirt.jpg"},
		{ID: "5", Name: "Ceramic Plant Pot", Description: "Glazed indoor pot with drainage tray", Category: "Home & Garden", Price: price("18.50"), Stock: 32, Rating: 4.6, ReviewCount: 58, ImageURL: "/images/plant-pot.jpg"},
		{ID: "6", Name: "Garden Tool Set", Description: "Five-piece hand tool set with carry bag", Category: "Home & Garden", Price: price("42.00"), Stock: 0, ReviewCount: 12, ImageURL: "/images/garden-tools.jpg"},
		{ID: "7", Name: "Yoga Mat", Description: "Non-slip exercise mat, 6mm thick", Category: "Sports", Price: price("24.99"), Stock: 40, Rating: 4.7, ReviewCount: 311, ImageURL: "/images/yoga-mat.jpg"},
		{ID: "8", Name: "Hardcover Cookbook", Description: "Everyday recipes with step-by-step photos", Category: "Books", Price: price("27.00"), Stock: 15, Rating: 4.3, ReviewCount: 74, ImageURL: "/images/cookbook.jpg"},
		{ID: "9", Name: "Science Fiction Anthology", Description: "Collected short stories from award-winning authors", Category: "Books", Price: price("15.99"), Stock: 22, Rating: 4.8, ReviewCount: 166, ImageURL: "/images/sci-fi-anthology.jpg"},
		{ID: "10", Name: "Building Blocks Set", Description: "500-piece creative building set, ages 6+", Category: "Toys", Price: price("34.99"), Stock: 28, Rating: 4.5, ReviewCount: 95, ImageURL: "/images/building-blocks.jpg"},
		{ID: "11", Name: "Vitamin C Serum", Description: "Brightening face serum with hyaluronic acid", Category: "Beauty", Price: price("21.99"), Stock: 45, Rating: 4.0, ReviewCount: 142, ImageURL: "/images/vitamin-c-serum.jpg"},
		{ID: "12", Name: "Organic Coffee Beans", Description: "Whole bean medium roast, 1kg bag", Category: "Food", Price: price("16.49"), Stock: 50, Rating: 4.6, ReviewCount: 230, ImageURL: "/images/coffee-beans.jpg"},
	}
}
