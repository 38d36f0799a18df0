package event

import (
	"context"
	"log/slog"

	"github.com/owltechengineer/ecoceo-sub006/internal/crm/domain"
	"github.com/owltechengineer/ecoceo-sub006/pkg/kafka"
	"github.com/owltechengineer/ecoceo-sub006/pkg/logger"
)

const source = "crm"

// TopicLeadCreated is published when a new lead lands.
var TopicLeadCreated = kafka.Topic("lead", "created")

// LeadCreatedData is the payload for lead.created events.
type LeadCreatedData struct {
	LeadID     string `json:"lead_id"`
	CampaignID string `json:"campaign_id,omitempty"`
	Email      string `json:"email"`
	Source     string `json:"source,omitempty"`
}

// Producer publishes CRM events, best-effort.
type Producer struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

func NewProducer(producer *kafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{producer: producer, logger: logger}
}

func (p *Producer) LeadCreated(ctx context.Context, lead *domain.Lead) {
	data := LeadCreatedData{
		LeadID: lead.ID.String(),
		Email:  lead.Email,
		Source: lead.Source,
	}
	if lead.CampaignID != nil {
		data.CampaignID = lead.CampaignID.String()
	}

	evt, err := kafka.NewEvent("lead.created", lead.ID.String(), "lead", source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event", slog.String("error", err.Error()))
		return
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, TopicLeadCreated, evt); err != nil {
		p.logger.WarnContext(ctx, "event publish failed",
			slog.String("topic", TopicLeadCreated),
			slog.String("error", err.Error()),
		)
	}
}
