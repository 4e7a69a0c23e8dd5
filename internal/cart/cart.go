package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/domain"
	"github.com/ayurbazaar/storefront/internal/pricing"
)

// The cart is the single source of truth for displayed quantities. Every
// mutation goes through SetQuantity under one lock, so rapid increments
// serialize last-applied and the MOQ invariant holds for every reachable
// state: a line item either does not exist or carries quantity >= MOQ.
//
// Per item identity:
//
//	ABSENT  --(quantity >= moq)--> PRESENT(q)
//	PRESENT --(quantity >= moq)--> PRESENT(q')
//	PRESENT --(quantity <  moq)--> ABSENT
//
// A below-MOQ quantity on an absent item is a no-op, not an error; it is
// reachable through ordinary decrement taps.

// LineItemTemplate carries the product/variant fields the cart cannot
// derive on its own when upserting a line item.
type LineItemTemplate struct {
	Name      string
	Image     string
	BasePrice float64
}

// SnapshotWriter persists the full cart after a mutation. Implementations
// must tolerate being called often; failures are logged, never surfaced.
type SnapshotWriter interface {
	Save(ctx context.Context, cartID string, items []domain.CartLineItem) error
}

// EventSink receives cart change notifications for downstream consumers.
type EventSink interface {
	CartItemUpserted(ctx context.Context, cartID string, item domain.CartLineItem)
	CartItemRemoved(ctx context.Context, cartID string, itemID string)
}

// Store owns the cart state for one shopper session.
type Store struct {
	mu        sync.Mutex
	cartID    string
	moq       int
	items     map[string]*domain.CartLineItem
	order     []string
	pricer    *pricing.Engine
	snapshots SnapshotWriter // optional
	events    EventSink      // optional
	logger    *zap.Logger
}

// NewStore creates an empty cart store. A non-positive moq falls back to
// pricing.DefaultMOQ. snapshots and events may be nil.
func NewStore(moq int, pricer *pricing.Engine, snapshots SnapshotWriter, events EventSink, logger *zap.Logger) *Store {
	if moq <= 0 {
		moq = pricing.DefaultMOQ
	}
	return &Store{
		cartID:    uuid.New().String(),
		moq:       moq,
		items:     make(map[string]*domain.CartLineItem),
		pricer:    pricer,
		snapshots: snapshots,
		events:    events,
		logger:    logger,
	}
}

// ID returns the cart identity used for snapshots and events
func (s *Store) ID() string {
	return s.cartID
}

// MOQ returns the minimum order quantity enforced by this store
func (s *Store) MOQ() int {
	return s.moq
}

// SetQuantity reconciles the line item for itemID against the requested
// quantity. Below-MOQ removes the item when present and is otherwise a
// no-op. At or above MOQ the item is upserted with the tier unit price for
// that quantity. Returns the resulting line item and whether it is present.
func (s *Store) SetQuantity(ctx context.Context, itemID string, quantity int, tmpl LineItemTemplate) (domain.CartLineItem, bool) {
	s.mu.Lock()

	if quantity < s.moq {
		existing, present := s.items[itemID]
		if present {
			delete(s.items, itemID)
			s.removeFromOrder(itemID)
			s.logger.Info("cart line removed",
				zap.String("item_id", itemID),
				zap.Int("requested_quantity", quantity),
			)
		}
		items := s.snapshotLocked()
		s.mu.Unlock()

		if present {
			s.persist(ctx, items)
			if s.events != nil {
				s.events.CartItemRemoved(ctx, s.cartID, itemID)
			}
			return *existing, false
		}
		return domain.CartLineItem{}, false
	}

	unitPrice := s.pricer.UnitPrice(tmpl.BasePrice, quantity)
	item, present := s.items[itemID]
	if !present {
		item = &domain.CartLineItem{ID: itemID}
		s.items[itemID] = item
		s.order = append(s.order, itemID)
	}
	item.Name = tmpl.Name
	item.Image = tmpl.Image
	item.Quantity = quantity
	item.UnitPrice = unitPrice
	item.OriginalUnitPrice = tmpl.BasePrice
	item.DiscountPercent = s.pricer.DiscountPercent(quantity)

	upserted := *item
	items := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, items)
	if s.events != nil {
		s.events.CartItemUpserted(ctx, s.cartID, upserted)
	}
	return upserted, true
}

// Quantity returns the cart quantity for an item identity, 0 when absent.
func (s *Store) Quantity(itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item, ok := s.items[itemID]; ok {
		return item.Quantity
	}
	return 0
}

// DisplayQuantity returns what the quantity stepper should show for an item
// identity: the cart quantity when present, otherwise the MOQ so the user
// always sees the minimum purchasable amount before adding.
func (s *Store) DisplayQuantity(itemID string) int {
	if q := s.Quantity(itemID); q > 0 {
		return q
	}
	return s.moq
}

// Items returns the line items in insertion order
func (s *Store) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Totals sums the cart into a breakdown. The unit price reported is 0 for
// an empty cart.
func (s *Store) Totals(applyTax bool, taxRate float64) pricing.Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b pricing.Breakdown
	for _, id := range s.order {
		item := s.items[id]
		b.Quantity += item.Quantity
		b.Subtotal += item.LineTotal()
	}
	if applyTax {
		b.TaxAmount = b.Subtotal * taxRate
	}
	b.Total = b.Subtotal + b.TaxAmount
	return b
}

// Restore replaces the cart contents from a persisted snapshot, dropping
// any line that violates the MOQ invariant.
func (s *Store) Restore(cartID string, items []domain.CartLineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cartID != "" {
		s.cartID = cartID
	}
	s.items = make(map[string]*domain.CartLineItem, len(items))
	s.order = s.order[:0]
	for i := range items {
		item := items[i]
		if item.Quantity < s.moq {
			s.logger.Warn("dropping below-minimum line from snapshot",
				zap.String("item_id", item.ID),
				zap.Int("quantity", item.Quantity),
			)
			continue
		}
		s.items[item.ID] = &item
		s.order = append(s.order, item.ID)
	}
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	removed := s.order
	s.items = make(map[string]*domain.CartLineItem)
	s.order = nil
	s.mu.Unlock()

	s.persist(ctx, nil)
	if s.events != nil {
		for _, id := range removed {
			s.events.CartItemRemoved(ctx, s.cartID, id)
		}
	}
}

func (s *Store) snapshotLocked() []domain.CartLineItem {
	out := make([]domain.CartLineItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out
}

func (s *Store) removeFromOrder(itemID string) {
	for i, id := range s.order {
		if id == itemID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *Store) persist(ctx context.Context, items []domain.CartLineItem) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, s.cartID, items); err != nil {
		s.logger.Warn("failed to persist cart snapshot", zap.Error(err))
	}
}
