package catalog

import (
	"sort"
	"strings"

	"github.com/ayurbazaar/storefront/internal/domain"
)

// The upstream service ignores most filter parameters, so filtering and
// sorting happen entirely in memory over the accumulated result set.
// ApplyFilters is a pure function: it never mutates its input slice or the
// products in it, and filters compose commutatively. Sort is applied last.

// ApplyFilters returns the products matching the criteria, sorted per
// criteria.SortBy. The result is always a subset of items.
func ApplyFilters(items []domain.Product, criteria domain.FilterCriteria) []domain.Product {
	out := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if !matchesPrice(p, criteria) {
			continue
		}
		if criteria.InStockOnly && !p.InStock {
			continue
		}
		if !matchesFacets(p, criteria.SelectedFacetIDs) {
			continue
		}
		out = append(out, p)
	}
	return sortProducts(out, criteria.SortBy)
}

func matchesPrice(p domain.Product, c domain.FilterCriteria) bool {
	if !c.HasPriceRange() {
		return true
	}
	if p.Price < c.MinPrice {
		return false
	}
	if c.MaxPrice > 0 && p.Price > c.MaxPrice {
		return false
	}
	return true
}

// matchesFacets keeps a product when any of its brand, category, type or
// tags matches a selected facet id (case-insensitive substring in either
// direction). An empty selection means no facet filtering.
func matchesFacets(p domain.Product, selected map[string]struct{}) bool {
	if len(selected) == 0 {
		return true
	}

	fields := make([]string, 0, 3+len(p.Tags))
	fields = append(fields, p.Brand, p.Category, p.Type)
	fields = append(fields, p.Tags...)

	for facetID := range selected {
		facet := strings.ToLower(facetID)
		if facet == "" {
			continue
		}
		for _, f := range fields {
			if f == "" {
				continue
			}
			field := strings.ToLower(f)
			if strings.Contains(field, facet) || strings.Contains(facet, field) {
				return true
			}
		}
	}
	return false
}

// sortProducts orders a copy-safe slice. price_low/price_high sort on price,
// popularity (the default) sorts by rating descending, newest reverses the
// arrival order since the upstream carries no usable timestamp. All sorts
// are stable so ties keep their prior relative order.
func sortProducts(items []domain.Product, order domain.SortOrder) []domain.Product {
	switch order {
	case domain.SortPriceLow:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	case domain.SortPriceHigh:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price > items[j].Price })
	case domain.SortNewest:
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	default:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Rating > items[j].Rating })
	}
	return items
}
