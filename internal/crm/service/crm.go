package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/owltechengineer/ecoceo-sub006/internal/crm/domain"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

// Repository is the persistence surface the CRM service needs.
type Repository interface {
	CreateCampaign(ctx context.Context, c *domain.Campaign) error
	GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	UpdateCampaign(ctx context.Context, c *domain.Campaign) error
	DeleteCampaign(ctx context.Context, id uuid.UUID) error
	ListCampaigns(ctx context.Context, status string, params pagination.Params) ([]*domain.Campaign, int64, error)

	CreateLead(ctx context.Context, l *domain.Lead) error
	GetLead(ctx context.Context, id uuid.UUID) (*domain.Lead, error)
	UpdateLead(ctx context.Context, l *domain.Lead) error
	DeleteLead(ctx context.Context, id uuid.UUID) error
	ListLeads(ctx context.Context, status string, campaignID *uuid.UUID, params pagination.Params) ([]*domain.Lead, int64, error)
}

// EventPublisher publishes CRM events.
type EventPublisher interface {
	LeadCreated(ctx context.Context, lead *domain.Lead)
}

// CRMService manages campaigns and leads.
type CRMService struct {
	repo   Repository
	events EventPublisher
	logger *slog.Logger
}

func NewCRMService(repo Repository, events EventPublisher, logger *slog.Logger) *CRMService {
	return &CRMService{repo: repo, events: events, logger: logger}
}

// CreateCampaignInput carries new-campaign fields.
type CreateCampaignInput struct {
	Name         string
	Channel      string
	BudgetAmount int64
	StartDate    time.Time
	EndDate      *time.Time
}

func (s *CRMService) CreateCampaign(ctx context.Context, in CreateCampaignInput) (*domain.Campaign, error) {
	if in.Name == "" {
		return nil, apperrors.InvalidInput("campaign name is required")
	}
	if !domain.IsValidChannel(in.Channel) {
		return nil, apperrors.InvalidInput("unknown campaign channel: " + in.Channel)
	}
	if in.BudgetAmount < 0 {
		return nil, apperrors.InvalidInput("budget must not be negative")
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return nil, apperrors.InvalidInput("end date must not precede start date")
	}

	now := time.Now().UTC()
	campaign := &domain.Campaign{
		ID:           uuid.New(),
		Name:         in.Name,
		Channel:      in.Channel,
		Status:       domain.CampaignStatusDraft,
		BudgetAmount: in.BudgetAmount,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateCampaign(ctx, campaign); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "campaign created",
		slog.String("campaign_id", campaign.ID.String()),
		slog.String("channel", campaign.Channel),
	)
	return campaign, nil
}

func (s *CRMService) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	return s.repo.GetCampaign(ctx, id)
}

// UpdateCampaignStatus transitions a campaign's status.
func (s *CRMService) UpdateCampaignStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Campaign, error) {
	if !domain.IsValidCampaignStatus(status) {
		return nil, apperrors.InvalidInput("unknown campaign status: " + status)
	}

	campaign, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	campaign.Status = status
	campaign.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateCampaign(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *CRMService) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCampaign(ctx, id)
}

func (s *CRMService) ListCampaigns(ctx context.Context, status string, params pagination.Params) ([]*domain.Campaign, int64, error) {
	if status != "" && !domain.IsValidCampaignStatus(status) {
		return nil, 0, apperrors.InvalidInput("unknown campaign status: " + status)
	}
	return s.repo.ListCampaigns(ctx, status, params)
}

// CreateLeadInput carries new-lead fields.
type CreateLeadInput struct {
	CampaignID *uuid.UUID
	Name       string
	Email      string
	Source     string
	Note       string
}

func (s *CRMService) CreateLead(ctx context.Context, in CreateLeadInput) (*domain.Lead, error) {
	if in.Name == "" {
		return nil, apperrors.InvalidInput("lead name is required")
	}
	if in.Email == "" {
		return nil, apperrors.InvalidInput("lead email is required")
	}

	if in.CampaignID != nil {
		if _, err := s.repo.GetCampaign(ctx, *in.CampaignID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	lead := &domain.Lead{
		ID:         uuid.New(),
		CampaignID: in.CampaignID,
		Name:       in.Name,
		Email:      in.Email,
		Source:     in.Source,
		Status:     domain.LeadStatusNew,
		Note:       in.Note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateLead(ctx, lead); err != nil {
		return nil, err
	}

	s.events.LeadCreated(ctx, lead)
	s.logger.InfoContext(ctx, "lead created", slog.String("lead_id", lead.ID.String()))
	return lead, nil
}

func (s *CRMService) GetLead(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	return s.repo.GetLead(ctx, id)
}

// UpdateLeadStatus transitions a lead's status and optionally appends a note.
func (s *CRMService) UpdateLeadStatus(ctx context.Context, id uuid.UUID, status, note string) (*domain.Lead, error) {
	if !domain.IsValidLeadStatus(status) {
		return nil, apperrors.InvalidInput("unknown lead status: " + status)
	}

	lead, err := s.repo.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}

	lead.Status = status
	if note != "" {
		lead.Note = note
	}
	lead.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateLead(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *CRMService) DeleteLead(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteLead(ctx, id)
}

func (s *CRMService) ListLeads(ctx context.Context, status string, campaignID *uuid.UUID, params pagination.Params) ([]*domain.Lead, int64, error) {
	if status != "" && !domain.IsValidLeadStatus(status) {
		return nil, 0, apperrors.InvalidInput("unknown lead status: " + status)
	}
	return s.repo.ListLeads(ctx, status, campaignID, params)
}
