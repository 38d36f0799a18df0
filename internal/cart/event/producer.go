package event

import (
	"context"
	"log/slog"

	"github.com/owltechengineer/ecoceo-sub006/internal/cart/domain"
	"github.com/owltechengineer/ecoceo-sub006/pkg/kafka"
	"github.com/owltechengineer/ecoceo-sub006/pkg/logger"
)

const source = "cart"

// Topics published by the cart.
var (
	TopicCartUpdated = kafka.Topic("cart", "updated")
	TopicCartCleared = kafka.Topic("cart", "cleared")
)

// CartUpdatedData is the payload for cart.updated events.
type CartUpdatedData struct {
	CartID      string `json:"cart_id"`
	SessionID   string `json:"session_id"`
	TotalAmount int64  `json:"total_amount"`
	ItemCount   int    `json:"item_count"`
	Currency    string `json:"currency"`
}

// CartClearedData is the payload for cart.cleared events.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// Producer publishes cart lifecycle events. Publishing is best-effort:
// failures are logged and never fail the originating request.
type Producer struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

func NewProducer(producer *kafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{producer: producer, logger: logger}
}

func (p *Producer) CartUpdated(ctx context.Context, cart *domain.Cart) {
	data := CartUpdatedData{
		CartID:      cart.ID,
		SessionID:   cart.SessionID,
		TotalAmount: cart.TotalAmount(),
		ItemCount:   cart.ItemCount(),
		Currency:    cart.Currency,
	}
	p.publish(ctx, TopicCartUpdated, "cart.updated", cart.ID, data)
}

func (p *Producer) CartCleared(ctx context.Context, sessionID string) {
	p.publish(ctx, TopicCartCleared, "cart.cleared", sessionID, CartClearedData{SessionID: sessionID})
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID string, data any) {
	evt, err := kafka.NewEvent(eventType, aggregateID, "cart", source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		p.logger.WarnContext(ctx, "event publish failed",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
