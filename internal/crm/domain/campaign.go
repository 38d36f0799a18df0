package domain

import (
	"time"

	"github.com/google/uuid"
)

// Campaign channels.
const (
	ChannelEmail    = "email"
	ChannelSocial   = "social"
	ChannelSearch   = "search"
	ChannelEvent    = "event"
	ChannelReferral = "referral"
)

// Campaign statuses.
const (
	CampaignStatusDraft    = "draft"
	CampaignStatusActive   = "active"
	CampaignStatusPaused   = "paused"
	CampaignStatusArchived = "archived"
)

var validChannels = map[string]struct{}{
	ChannelEmail:    {},
	ChannelSocial:   {},
	ChannelSearch:   {},
	ChannelEvent:    {},
	ChannelReferral: {},
}

var validCampaignStatuses = map[string]struct{}{
	CampaignStatusDraft:    {},
	CampaignStatusActive:   {},
	CampaignStatusPaused:   {},
	CampaignStatusArchived: {},
}

// IsValidChannel reports whether c is a known campaign channel.
func IsValidChannel(c string) bool {
	_, ok := validChannels[c]
	return ok
}

// IsValidCampaignStatus reports whether s is a known campaign status.
func IsValidCampaignStatus(s string) bool {
	_, ok := validCampaignStatuses[s]
	return ok
}

// Campaign is a marketing campaign tracked by the agency. BudgetAmount is in
// minor currency units.
type Campaign struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Channel      string     `json:"channel"`
	Status       string     `json:"status"`
	BudgetAmount int64      `json:"budget_amount"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
