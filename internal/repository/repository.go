package repository

import (
	"context"

	"github.com/ayurbazaar/storefront/internal/domain"
)

// CartSnapshots persists carts across app restarts. The in-memory cart
// store stays the source of truth; this is a write-behind copy.
type CartSnapshots interface {
	Save(ctx context.Context, cartID string, items []domain.CartLineItem) error
	Load(ctx context.Context, cartID string) ([]domain.CartLineItem, error)
}

// Repositories aggregates all persistence interfaces
type Repositories struct {
	CartSnapshots CartSnapshots
}
