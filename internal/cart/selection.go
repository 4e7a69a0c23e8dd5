package cart

import (
	"sync"

	"github.com/ayurbazaar/storefront/internal/domain"
)

// SelectionTracker records which variant of each product the user is
// currently viewing. It is deliberately separate from the cart: browsing
// variants must not create or mutate line items, and the cart identity for
// a product with variants is the selected variant id, never the bare
// product id.
type SelectionTracker struct {
	mu       sync.Mutex
	selected map[string]string // product id -> variant id
}

// NewSelectionTracker creates an empty tracker
func NewSelectionTracker() *SelectionTracker {
	return &SelectionTracker{selected: make(map[string]string)}
}

// Select marks a variant as the active one for a product. Selecting a
// variant the product does not carry is ignored and reported false.
func (t *SelectionTracker) Select(product domain.Product, variantID string) bool {
	var found bool
	for _, v := range product.Variants {
		if v.ID == variantID {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected[product.ID] = variantID
	return true
}

// Deselect returns a product to the no-variant-selected state
func (t *SelectionTracker) Deselect(productID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.selected, productID)
}

// State reports the selection state for a product
func (t *SelectionTracker) State(productID string) domain.SelectionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.selected[productID]; ok {
		return domain.SelectionVariant
	}
	return domain.SelectionNone
}

// ActiveIdentity resolves the cart identity for a product: the selected
// variant id when the product has variants, the bare product id otherwise.
// A product with variants and no selection defaults to its first variant,
// matching what the variant picker shows.
func (t *SelectionTracker) ActiveIdentity(product domain.Product) string {
	if !product.HasVariants() {
		return product.ID
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if variantID, ok := t.selected[product.ID]; ok {
		return variantID
	}
	return product.Variants[0].ID
}

// ActiveVariant returns the variant backing ActiveIdentity, when one exists.
func (t *SelectionTracker) ActiveVariant(product domain.Product) (domain.Variant, bool) {
	if !product.HasVariants() {
		return domain.Variant{}, false
	}

	id := t.ActiveIdentity(product)
	for _, v := range product.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return product.Variants[0], true
}
