package domain

// SortOrder selects how a filtered product list is ordered
type SortOrder string

const (
	SortPopularity SortOrder = "popularity"
	SortPriceLow   SortOrder = "price_low"
	SortPriceHigh  SortOrder = "price_high"
	SortNewest     SortOrder = "newest"
)

// IsValid checks if the sort order is one of the supported values
func (s SortOrder) IsValid() bool {
	switch s {
	case SortPopularity, SortPriceLow, SortPriceHigh, SortNewest:
		return true
	default:
		return false
	}
}

// EntityKind tells the normalizer which canonical entity to produce
type EntityKind string

const (
	KindCategory EntityKind = "category"
	KindProduct  EntityKind = "product"
)

// SelectionState tracks which variant of a product the user is viewing.
// Browsing variants never touches the cart; only an explicit quantity
// commit does.
type SelectionState string

const (
	SelectionNone    SelectionState = "NONE"
	SelectionVariant SelectionState = "VARIANT_SELECTED"
)

// CanTransitionTo checks if a selection state transition is valid
func (s SelectionState) CanTransitionTo(next SelectionState) bool {
	switch s {
	case SelectionNone:
		return next == SelectionVariant
	case SelectionVariant:
		return next == SelectionVariant || next == SelectionNone
	default:
		return false
	}
}
