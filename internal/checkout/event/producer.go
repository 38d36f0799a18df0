package event

import (
	"context"
	"log/slog"

	"github.com/owltechengineer/ecoceo-sub006/internal/checkout/domain"
	"github.com/owltechengineer/ecoceo-sub006/pkg/kafka"
	"github.com/owltechengineer/ecoceo-sub006/pkg/logger"
)

const source = "checkout"

// Topics published by checkout.
var (
	TopicOrderPlaced     = kafka.Topic("order", "placed")
	TopicPaymentCaptured = kafka.Topic("payment", "captured")
	TopicPaymentFailed   = kafka.Topic("payment", "failed")
	TopicPaymentRefunded = kafka.Topic("payment", "refunded")
)

// OrderEventData is the shared payload for order lifecycle events.
type OrderEventData struct {
	OrderID     string `json:"order_id"`
	SessionID   string `json:"session_id"`
	TotalAmount int64  `json:"total_amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	PaymentRef  string `json:"payment_ref,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Producer publishes checkout events, best-effort.
type Producer struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

func NewProducer(producer *kafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{producer: producer, logger: logger}
}

func (p *Producer) OrderPlaced(ctx context.Context, order *domain.Order) {
	p.publish(ctx, TopicOrderPlaced, "order.placed", order, "")
}

func (p *Producer) PaymentCaptured(ctx context.Context, order *domain.Order) {
	p.publish(ctx, TopicPaymentCaptured, "payment.captured", order, "")
}

func (p *Producer) PaymentFailed(ctx context.Context, order *domain.Order, reason string) {
	p.publish(ctx, TopicPaymentFailed, "payment.failed", order, reason)
}

func (p *Producer) PaymentRefunded(ctx context.Context, order *domain.Order) {
	p.publish(ctx, TopicPaymentRefunded, "payment.refunded", order, "")
}

func (p *Producer) publish(ctx context.Context, topic, eventType string, order *domain.Order, reason string) {
	data := OrderEventData{
		OrderID:     order.ID.String(),
		SessionID:   order.SessionID,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		Status:      order.Status,
		PaymentRef:  order.PaymentRef,
		Reason:      reason,
	}

	evt, err := kafka.NewEvent(eventType, order.ID.String(), "order", source, data)
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
