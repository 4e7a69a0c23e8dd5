package pricing

import (
	"go.uber.org/zap"
)

// Wholesale order quantities earn a lower unit price: 5% off from 10 units,
// 10% off from 20 units. The engine is a pure calculation over (base price,
// quantity) and will happily price a below-MOQ quantity so the UI can show
// "what if" previews; the cart store is what refuses to keep such a line.

const (
	// DefaultMOQ is the minimum order quantity a cart line item may hold
	DefaultMOQ = 5
	// DefaultTaxRate is the GST rate applied when tax display is enabled
	DefaultTaxRate = 0.18

	tier1Quantity   = 10
	tier1Multiplier = 0.95
	tier2Quantity   = 20
	tier2Multiplier = 0.90
)

// Breakdown is the computed amount set for one quantity selection
type Breakdown struct {
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

type Engine struct {
	taxRate float64
	logger  *zap.Logger
}

// NewEngine creates a pricing engine. A non-positive taxRate falls back to
// DefaultTaxRate.
func NewEngine(taxRate float64, logger *zap.Logger) *Engine {
	if taxRate <= 0 {
		taxRate = DefaultTaxRate
	}
	return &Engine{taxRate: taxRate, logger: logger}
}

// UnitPrice returns the tiered unit price for a quantity. Non-increasing in
// quantity for a fixed base price.
func (e *Engine) UnitPrice(basePrice float64, quantity int) float64 {
	switch {
	case quantity >= tier2Quantity:
		return basePrice * tier2Multiplier
	case quantity >= tier1Quantity:
		return basePrice * tier1Multiplier
	default:
		return basePrice
	}
}

// Price computes the full breakdown for a quantity selection. Negative
// inputs produce a zeroed breakdown and a warning rather than an error;
// they are not reachable through the UI and pricing must never block it.
func (e *Engine) Price(basePrice float64, quantity int, applyTax bool) Breakdown {
	if basePrice < 0 || quantity < 0 {
		e.logger.Warn("refusing to price negative input",
			zap.Float64("base_price", basePrice),
			zap.Int("quantity", quantity),
		)
		return Breakdown{}
	}

	unitPrice := e.UnitPrice(basePrice, quantity)
	subtotal := unitPrice * float64(quantity)

	taxAmount := 0.0
	if applyTax {
		taxAmount = subtotal * e.taxRate
	}

	return Breakdown{
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
	}
}

// DiscountPercent returns the tier discount applied at a quantity, for
// savings badges.
func (e *Engine) DiscountPercent(quantity int) float64 {
	switch {
	case quantity >= tier2Quantity:
		return (1 - tier2Multiplier) * 100
	case quantity >= tier1Quantity:
		return (1 - tier1Multiplier) * 100
	default:
		return 0
	}
}
