package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/owltechengineer/ecoceo-sub006/internal/crm/domain"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func (m *mockRepo) UpdateCampaign(ctx context.Context, c *domain.Campaign) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) ListCampaigns(ctx context.Context, status string, params pagination.Params) ([]*domain.Campaign, int64, error) {
	args := m.Called(ctx, status, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Campaign), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) CreateLead(ctx context.Context, l *domain.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockRepo) GetLead(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *mockRepo) UpdateLead(ctx context.Context, l *domain.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockRepo) DeleteLead(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) ListLeads(ctx context.Context, status string, campaignID *uuid.UUID, params pagination.Params) ([]*domain.Lead, int64, error) {
	args := m.Called(ctx, status, campaignID, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Lead), args.Get(1).(int64), args.Error(2)
}

type noopEvents struct{}

func (noopEvents) LeadCreated(context.Context, *domain.Lead) {}

func newService(repo *mockRepo) *CRMService {
	return NewCRMService(repo, noopEvents{}, slog.New(slog.DiscardHandler))
}

func TestCreateCampaign(t *testing.T) {
	repo := new(mockRepo)
	repo.On("CreateCampaign", mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo)
	campaign, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{
		Name:         "Spring launch",
		Channel:      domain.ChannelEmail,
		BudgetAmount: 150000,
		StartDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CampaignStatusDraft, campaign.Status)
	assert.NotEqual(t, uuid.Nil, campaign.ID)
}

func TestCreateCampaignUnknownChannel(t *testing.T) {
	svc := newService(new(mockRepo))
	_, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{
		Name:    "Bad",
		Channel: "carrier-pigeon",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateCampaignEndBeforeStart(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	svc := newService(new(mockRepo))
	_, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{
		Name:      "Backwards",
		Channel:   domain.ChannelSocial,
		StartDate: start,
		EndDate:   &end,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateCampaignStatus(t *testing.T) {
	id := uuid.New()
	repo := new(mockRepo)
	repo.On("GetCampaign", mock.Anything, id).Return(&domain.Campaign{ID: id, Status: domain.CampaignStatusDraft}, nil)
	repo.On("UpdateCampaign", mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo)
	campaign, err := svc.UpdateCampaignStatus(context.Background(), id, domain.CampaignStatusActive)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStatusActive, campaign.Status)
}

func TestUpdateCampaignStatusUnknown(t *testing.T) {
	svc := newService(new(mockRepo))
	_, err := svc.UpdateCampaignStatus(context.Background(), uuid.New(), "turbo")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateLead(t *testing.T) {
	repo := new(mockRepo)
	repo.On("CreateLead", mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo)
	lead, err := svc.CreateLead(context.Background(), CreateLeadInput{
		Name:   "Ada",
		Email:  "ada@example.com",
		Source: "contact-form",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusNew, lead.Status)
}

func TestCreateLeadValidatesCampaign(t *testing.T) {
	campaignID := uuid.New()
	repo := new(mockRepo)
	repo.On("GetCampaign", mock.Anything, campaignID).Return(nil, apperrors.NotFound("campaign", campaignID.String()))

	svc := newService(repo)
	_, err := svc.CreateLead(context.Background(), CreateLeadInput{
		CampaignID: &campaignID,
		Name:       "Ada",
		Email:      "ada@example.com",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateLeadStatus(t *testing.T) {
	id := uuid.New()
	repo := new(mockRepo)
	repo.On("GetLead", mock.Anything, id).Return(&domain.Lead{ID: id, Status: domain.LeadStatusNew}, nil)
	repo.On("UpdateLead", mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo)
	lead, err := svc.UpdateLeadStatus(context.Background(), id, domain.LeadStatusQualified, "followed up by phone")
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusQualified, lead.Status)
	assert.Equal(t, "followed up by phone", lead.Note)
}

func TestListLeadsRejectsUnknownStatus(t *testing.T) {
	svc := newService(new(mockRepo))
	_, _, err := svc.ListLeads(context.Background(), "hot", nil, pagination.DefaultParams())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
