package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayurbazaar/storefront/internal/domain"
)

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Ashwagandha", Price: 150, Rating: 4.5, InStock: true, Brand: "Himalaya", Category: "Churnas"},
		{ID: "2", Name: "Triphala", Price: 99, Rating: 4.8, InStock: false, Brand: "Dabur", Category: "Churnas"},
		{ID: "3", Name: "Giloy Juice", Price: 220, Rating: 4.2, InStock: true, Brand: "Kapiva", Category: "Juices", Tags: []string{"immunity"}},
		{ID: "4", Name: "Brahmi", Price: 99, Rating: 3.9, InStock: true, Brand: "Himalaya", Category: "Tablets"},
	}
}

func ids(items []domain.Product) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func TestApplyFilters_NoCriteriaKeepsAll(t *testing.T) {
	items := sampleProducts()

	got := ApplyFilters(items, domain.FilterCriteria{})

	// Default sort is popularity: rating descending, stable
	assert.Equal(t, []string{"2", "1", "3", "4"}, ids(got))
	assert.Len(t, got, len(items))
}

func TestApplyFilters_PriceRange(t *testing.T) {
	got := ApplyFilters(sampleProducts(), domain.FilterCriteria{MinPrice: 100, MaxPrice: 200})
	assert.Equal(t, []string{"1"}, ids(got))

	// MaxPrice zero means unbounded above
	got = ApplyFilters(sampleProducts(), domain.FilterCriteria{MinPrice: 100})
	assert.ElementsMatch(t, []string{"1", "3"}, ids(got))
}

func TestApplyFilters_InStockOnly(t *testing.T) {
	got := ApplyFilters(sampleProducts(), domain.FilterCriteria{InStockOnly: true})
	assert.NotContains(t, ids(got), "2")
	assert.Len(t, got, 3)
}

func TestApplyFilters_Facets(t *testing.T) {
	criteria := domain.FilterCriteria{
		SelectedFacetIDs: map[string]struct{}{"himalaya": {}},
	}
	got := ApplyFilters(sampleProducts(), criteria)
	assert.ElementsMatch(t, []string{"1", "4"}, ids(got))

	// Tag facet, case-insensitive substring
	criteria = domain.FilterCriteria{
		SelectedFacetIDs: map[string]struct{}{"IMMUNITY": {}},
	}
	got = ApplyFilters(sampleProducts(), criteria)
	assert.Equal(t, []string{"3"}, ids(got))

	// Empty selection means no facet filtering
	got = ApplyFilters(sampleProducts(), domain.FilterCriteria{SelectedFacetIDs: map[string]struct{}{}})
	assert.Len(t, got, 4)
}

func TestApplyFilters_SortOrders(t *testing.T) {
	items := sampleProducts()

	low := ApplyFilters(items, domain.FilterCriteria{SortBy: domain.SortPriceLow})
	// Stable: the two 99-rupee items keep their relative order
	assert.Equal(t, []string{"2", "4", "1", "3"}, ids(low))

	high := ApplyFilters(items, domain.FilterCriteria{SortBy: domain.SortPriceHigh})
	assert.Equal(t, []string{"3", "1", "2", "4"}, ids(high))

	newest := ApplyFilters(items, domain.FilterCriteria{SortBy: domain.SortNewest})
	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(newest))
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	items := sampleProducts()

	ApplyFilters(items, domain.FilterCriteria{SortBy: domain.SortPriceHigh, InStockOnly: true})

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(items))
}

func TestApplyFilters_SubsetProperty(t *testing.T) {
	items := sampleProducts()
	byID := make(map[string]domain.Product, len(items))
	for _, p := range items {
		byID[p.ID] = p
	}

	criteria := domain.FilterCriteria{MinPrice: 50, MaxPrice: 500, InStockOnly: true}
	got := ApplyFilters(items, criteria)

	require.LessOrEqual(t, len(got), len(items))
	for _, p := range got {
		_, ok := byID[p.ID]
		assert.True(t, ok, "filtering invented item %s", p.ID)
	}
}

func TestApplyFilters_FilterComposition(t *testing.T) {
	items := sampleProducts()

	c1 := domain.FilterCriteria{InStockOnly: true}
	c2 := domain.FilterCriteria{MinPrice: 100, MaxPrice: 300}
	combined := domain.FilterCriteria{InStockOnly: true, MinPrice: 100, MaxPrice: 300}

	chained := ApplyFilters(ApplyFilters(items, c1), c2)
	direct := ApplyFilters(items, combined)

	assert.Equal(t, ids(direct), ids(chained))
}
