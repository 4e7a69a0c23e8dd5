package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/config"
	"github.com/ayurbazaar/storefront/internal/domain"
)

// Publisher writes cart change events to Kafka for downstream analytics.
// Publishing is fire-and-forget: a broker outage is logged at warn level
// and never blocks a cart operation.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewPublisher creates a Kafka publisher
func NewPublisher(cfg config.EventsConfig, logger *zap.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 5 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return &Publisher{writer: writer, logger: logger}
}

type cartEvent struct {
	Type       string               `json:"type"`
	CartID     string               `json:"cart_id"`
	ItemID     string               `json:"item_id"`
	Item       *domain.CartLineItem `json:"item,omitempty"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// CartItemUpserted publishes a line item add or quantity change
func (p *Publisher) CartItemUpserted(ctx context.Context, cartID string, item domain.CartLineItem) {
	p.publish(ctx, cartEvent{
		Type:       "cart_item_upserted",
		CartID:     cartID,
		ItemID:     item.ID,
		Item:       &item,
		OccurredAt: time.Now(),
	})
}

// CartItemRemoved publishes a line item removal
func (p *Publisher) CartItemRemoved(ctx context.Context, cartID string, itemID string) {
	p.publish(ctx, cartEvent{
		Type:       "cart_item_removed",
		CartID:     cartID,
		ItemID:     itemID,
		OccurredAt: time.Now(),
	})
}

func (p *Publisher) publish(ctx context.Context, event cartEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to marshal cart event", zap.Error(err))
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.CartID),
		Value: payload,
	})
	if err != nil {
		p.logger.Warn("failed to publish cart event",
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}
}

// Close flushes and closes the underlying writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}
