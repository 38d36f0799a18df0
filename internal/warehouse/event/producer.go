package event

import (
	"context"
	"log/slog"

	"github.com/owltechengineer/ecoceo-sub006/internal/warehouse/domain"
	"github.com/owltechengineer/ecoceo-sub006/pkg/kafka"
	"github.com/owltechengineer/ecoceo-sub006/pkg/logger"
)

const source = "warehouse"

// TopicStockAdjusted is published on every quantity change.
var TopicStockAdjusted = kafka.Topic("stock", "adjusted")

// StockAdjustedData is the payload for stock.adjusted events.
type StockAdjustedData struct {
	ItemID   string `json:"item_id"`
	SKU      string `json:"sku"`
	Delta    int    `json:"delta"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

// Producer publishes warehouse events, best-effort.
type Producer struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

func NewProducer(producer *kafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{producer: producer, logger: logger}
}

func (p *Producer) StockAdjusted(ctx context.Context, item *domain.StockItem, delta int, reason string) {
	data := StockAdjustedData{
		ItemID:   item.ID.String(),
		SKU:      item.SKU,
		Delta:    delta,
		Quantity: item.Quantity,
		Reason:   reason,
	}

	evt, err := kafka.NewEvent("stock.adjusted", item.ID.String(), "stock_item", source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event", slog.String("error", err.Error()))
		return
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, TopicStockAdjusted, evt); err != nil {
		p.logger.WarnContext(ctx, "event publish failed",
			slog.String("topic", TopicStockAdjusted),
			slog.String("error", err.Error()),
		)
	}
}
