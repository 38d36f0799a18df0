package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead statuses.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusWon       = "won"
	LeadStatusLost      = "lost"
)

var validLeadStatuses = map[string]struct{}{
	LeadStatusNew:       {},
	LeadStatusContacted: {},
	LeadStatusQualified: {},
	LeadStatusWon:       {},
	LeadStatusLost:      {},
}

// IsValidLeadStatus reports whether s is a known lead status.
func IsValidLeadStatus(s string) bool {
	_, ok := validLeadStatuses[s]
	return ok
}

// Lead is a prospect, optionally attributed to a campaign.
type Lead struct {
	ID         uuid.UUID  `json:"id"`
	CampaignID *uuid.UUID `json:"campaign_id,omitempty"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Source     string     `json:"source,omitempty"`
	Status     string     `json:"status"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
