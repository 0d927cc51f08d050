package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopease/storefront/internal/models"
)

// LoadCatalog reads a catalog snapshot from a JSON source, either a local
// file path or an http(s) URL. File order is preserved; it is the catalog
// order an unsorted listing shows.
func LoadCatalog(ctx context.Context, source string) ([]models.Product, error) {
	var reader io.ReadCloser
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		reader, err = openURL(ctx, source)
	} else {
		reader, err = os.Open(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog source: %w", err)
	}
	defer reader.Close()

	var products []models.Product
	if err := json.NewDecoder(reader).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	if err := validateCatalog(products); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return products, nil
}

// openURL downloads the catalog file with a context-aware request.
func openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download catalog: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

func validateCatalog(products []models.Product) error {
	if len(products) == 0 {
		return fmt.Errorf("catalog is empty")
	}

	seen := make(map[string]bool, len(products))
	for i, p := range products {
		if p.ID == "" {
			return fmt.Errorf("product %d has no ID", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate product ID %q", p.ID)
		}
		seen[p.ID] = true

		if p.Name == "" {
			return fmt.Errorf("product %q has no name", p.ID)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("product %q has a negative price", p.ID)
		}
		if p.Stock < 0 {
			return fmt.Errorf("product %q has negative stock", p.ID)
		}
		if p.Rating < 0 || p.Rating > 5 {
			return fmt.Errorf("product %q has rating outside 0-5", p.ID)
		}
	}

	return nil
}
