package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopease/storefront/internal/models"
)

// Apply derives a displayed product list from a catalog snapshot and a
// filter/sort selection. The input is never mutated; the stages always run in
// the same order: category, min price, max price, text search, sort. The sort
// works on the already-reduced set, so filtering stays ahead of it.
func Apply(products []models.Product, spec models.FilterSpec) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)

	out = filterCategory(out, spec.Category)
	out = filterMinPrice(out, spec.MinPrice)
	out = filterMaxPrice(out, spec.MaxPrice)
	out = filterSearch(out, spec.Search)
	sortProducts(out, spec.Sort)

	return out
}

// filterCategory keeps products whose category matches exactly.
// "All" (or an empty selection) keeps everything.
func filterCategory(products []models.Product, category string) []models.Product {
	if category == "" || category == models.CategoryAll {
		return products
	}

	kept := products[:0]
	for _, p := range products {
		if p.Category == category {
			kept = append(kept, p)
		}
	}
	return kept
}

func filterMinPrice(products []models.Product, raw string) []models.Product {
	min, ok := parseBound(raw)
	if !ok {
		return products
	}

	kept := products[:0]
	for _, p := range products {
		if !p.Price.LessThan(min) {
			kept = append(kept, p)
		}
	}
	return kept
}

func filterMaxPrice(products []models.Product, raw string) []models.Product {
	max, ok := parseBound(raw)
	if !ok {
		return products
	}

	kept := products[:0]
	for _, p := range products {
		if !p.Price.GreaterThan(max) {
			kept = append(kept, p)
		}
	}
	return kept
}

// filterSearch keeps products whose name or description contains the search
// text, case-insensitively.
func filterSearch(products []models.Product, search string) []models.Product {
	if search == "" {
		return products
	}
	needle := strings.ToLower(search)

	kept := products[:0]
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			kept = append(kept, p)
		}
	}
	return kept
}

// sortProducts orders the reduced set in place. Sorting is stable, so ties
// keep the catalog's server-provided order. SortNone (and any unknown key)
// leaves the order untouched.
func sortProducts(products []models.Product, key models.SortKey) {
	switch key {
	case models.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case models.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case models.SortRatingDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	}
}

// parseBound turns a user-typed price bound into a decimal. Blank or
// unparsable input means "no bound" rather than an error, since bounds come
// from free-text entry.
func parseBound(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
