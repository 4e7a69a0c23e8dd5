package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayurbazaar/storefront/internal/domain"
)

func variantProduct() domain.Product {
	return domain.Product{
		ID:   "P1",
		Name: "Chyawanprash",
		Variants: []domain.Variant{
			{ID: "V1", RegularPrice: 250},
			{ID: "V2", RegularPrice: 450},
		},
	}
}

func TestSelectionTracker_ActiveIdentity_NoVariants(t *testing.T) {
	tracker := NewSelectionTracker()
	p := domain.Product{ID: "P9", Name: "Tulsi Drops"}

	assert.Equal(t, "P9", tracker.ActiveIdentity(p))
	assert.Equal(t, domain.SelectionNone, tracker.State("P9"))
}

func TestSelectionTracker_DefaultsToFirstVariant(t *testing.T) {
	tracker := NewSelectionTracker()
	p := variantProduct()

	assert.Equal(t, "V1", tracker.ActiveIdentity(p))
}

func TestSelectionTracker_SelectSwitchesIdentity(t *testing.T) {
	tracker := NewSelectionTracker()
	p := variantProduct()

	assert.True(t, tracker.Select(p, "V2"))
	assert.Equal(t, "V2", tracker.ActiveIdentity(p))
	assert.Equal(t, domain.SelectionVariant, tracker.State("P1"))

	v, ok := tracker.ActiveVariant(p)
	assert.True(t, ok)
	assert.Equal(t, "V2", v.ID)
}

func TestSelectionTracker_RejectsUnknownVariant(t *testing.T) {
	tracker := NewSelectionTracker()
	p := variantProduct()

	assert.False(t, tracker.Select(p, "V99"))
	assert.Equal(t, "V1", tracker.ActiveIdentity(p))
}

func TestSelectionTracker_DeselectReturnsToNone(t *testing.T) {
	tracker := NewSelectionTracker()
	p := variantProduct()

	tracker.Select(p, "V2")
	tracker.Deselect("P1")

	assert.Equal(t, domain.SelectionNone, tracker.State("P1"))
	assert.Equal(t, "V1", tracker.ActiveIdentity(p))
}

func TestSelectionTracker_BrowsingDoesNotTouchCart(t *testing.T) {
	tracker := NewSelectionTracker()
	store := newTestStore()
	p := variantProduct()

	tracker.Select(p, "V2")
	tracker.Select(p, "V1")
	tracker.Deselect("P1")

	assert.Empty(t, store.Items())
}

func TestSelectionState_Transitions(t *testing.T) {
	assert.True(t, domain.SelectionNone.CanTransitionTo(domain.SelectionVariant))
	assert.True(t, domain.SelectionVariant.CanTransitionTo(domain.SelectionVariant))
	assert.True(t, domain.SelectionVariant.CanTransitionTo(domain.SelectionNone))
	assert.False(t, domain.SelectionNone.CanTransitionTo(domain.SelectionNone))
}
