package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/domain"
	"github.com/ayurbazaar/storefront/pkg/errors"
)

type cartSnapshotRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCartSnapshotRepository creates a cart snapshot repository
func NewCartSnapshotRepository(db *sql.DB, logger *zap.Logger) *cartSnapshotRepository {
	return &cartSnapshotRepository{
		db:     db,
		logger: logger,
	}
}

func (r *cartSnapshotRepository) Save(ctx context.Context, cartID string, items []domain.CartLineItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cart_snapshots (cart_id, items, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id)
		DO UPDATE SET items = $2, updated_at = $3
	`

	_, err = r.db.ExecContext(ctx, query, cartID, payload, time.Now())
	if err != nil {
		r.logger.Error("Failed to save cart snapshot", zap.Error(err))
		return err
	}

	return nil
}

func (r *cartSnapshotRepository) Load(ctx context.Context, cartID string) ([]domain.CartLineItem, error) {
	query := `
		SELECT items
		FROM cart_snapshots
		WHERE cart_id = $1
	`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, cartID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "cart snapshot", ID: cartID}
	}
	if err != nil {
		r.logger.Error("Failed to load cart snapshot", zap.Error(err))
		return nil, err
	}

	var items []domain.CartLineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, err
	}

	return items, nil
}
