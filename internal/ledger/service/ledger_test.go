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

	"github.com/owltechengineer/ecoceo-sub006/internal/ledger/domain"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, e *domain.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) List(ctx context.Context, direction, category string, from, to time.Time, params pagination.Params) ([]*domain.Entry, int64, error) {
	args := m.Called(ctx, direction, category, from, to, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Entry), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) Summarize(ctx context.Context, from, to time.Time) (*domain.Summary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Summary), args.Error(1)
}

func newService(repo *mockRepo) *LedgerService {
	return NewLedgerService(repo, slog.New(slog.DiscardHandler))
}

func TestCreateEntry(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo)
	entry, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		Direction: domain.DirectionExpense,
		Amount:    4500,
		Category:  "hosting",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DirectionExpense, entry.Direction)
	assert.False(t, entry.OccurredAt.IsZero())
}

func TestCreateEntryValidation(t *testing.T) {
	svc := newService(new(mockRepo))

	_, err := svc.CreateEntry(context.Background(), CreateEntryInput{Direction: "sideways", Amount: 1, Category: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateEntry(context.Background(), CreateEntryInput{Direction: domain.DirectionIncome, Amount: 0, Category: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateEntry(context.Background(), CreateEntryInput{Direction: domain.DirectionIncome, Amount: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSummarizeRejectsBackwardsPeriod(t *testing.T) {
	svc := newService(new(mockRepo))
	from := time.Now()

	_, err := svc.Summarize(context.Background(), from, from.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
