package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/owltechengineer/ecoceo-sub006/internal/ledger/domain"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

// Repository is the persistence surface the ledger service needs.
type Repository interface {
	Create(ctx context.Context, e *domain.Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, direction, category string, from, to time.Time, params pagination.Params) ([]*domain.Entry, int64, error)
	Summarize(ctx context.Context, from, to time.Time) (*domain.Summary, error)
}

// LedgerService records the agency's income and expenses.
type LedgerService struct {
	repo   Repository
	logger *slog.Logger
}

func NewLedgerService(repo Repository, logger *slog.Logger) *LedgerService {
	return &LedgerService{repo: repo, logger: logger}
}

// CreateEntryInput carries new-entry fields.
type CreateEntryInput struct {
	Direction  string
	Amount     int64
	Category   string
	Note       string
	OccurredAt time.Time
}

func (s *LedgerService) CreateEntry(ctx context.Context, in CreateEntryInput) (*domain.Entry, error) {
	if !domain.IsValidDirection(in.Direction) {
		return nil, apperrors.InvalidInput("direction must be income or expense")
	}
	if in.Amount <= 0 {
		return nil, apperrors.InvalidInput("amount must be positive")
	}
	if in.Category == "" {
		return nil, apperrors.InvalidInput("category is required")
	}

	occurred := in.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	entry := &domain.Entry{
		ID:         uuid.New(),
		Direction:  in.Direction,
		Amount:     in.Amount,
		Category:   in.Category,
		Note:       in.Note,
		OccurredAt: occurred,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "ledger entry recorded",
		slog.String("entry_id", entry.ID.String()),
		slog.String("direction", entry.Direction),
		slog.Int64("amount", entry.Amount),
	)
	return entry, nil
}

func (s *LedgerService) GetEntry(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *LedgerService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *LedgerService) ListEntries(ctx context.Context, direction, category string, from, to time.Time, params pagination.Params) ([]*domain.Entry, int64, error) {
	if direction != "" && !domain.IsValidDirection(direction) {
		return nil, 0, apperrors.InvalidInput("direction must be income or expense")
	}
	if !to.After(from) {
		return nil, 0, apperrors.InvalidInput("period end must be after start")
	}
	return s.repo.List(ctx, direction, category, from, to, params)
}

func (s *LedgerService) Summarize(ctx context.Context, from, to time.Time) (*domain.Summary, error) {
	if !to.After(from) {
		return nil, apperrors.InvalidInput("period end must be after start")
	}
	return s.repo.Summarize(ctx, from, to)
}
