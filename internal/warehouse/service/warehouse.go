package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/owltechengineer/ecoceo-sub006/internal/warehouse/domain"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

// Repository is the persistence surface the warehouse service needs.
type Repository interface {
	CreateItem(ctx context.Context, item *domain.StockItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*domain.StockItem, error)
	UpdateItem(ctx context.Context, item *domain.StockItem) error
	ListItems(ctx context.Context, params pagination.Params) ([]*domain.StockItem, int64, error)
	Adjust(ctx context.Context, itemID uuid.UUID, delta int, reason string) (*domain.StockItem, error)
	ListMovements(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]*domain.StockMovement, int64, error)
}

// EventPublisher publishes warehouse events.
type EventPublisher interface {
	StockAdjusted(ctx context.Context, item *domain.StockItem, delta int, reason string)
}

// WarehouseService manages physical stock.
type WarehouseService struct {
	repo   Repository
	events EventPublisher
	logger *slog.Logger
}

func NewWarehouseService(repo Repository, events EventPublisher, logger *slog.Logger) *WarehouseService {
	return &WarehouseService{repo: repo, events: events, logger: logger}
}

// CreateItemInput carries new-item fields.
type CreateItemInput struct {
	SKU      string
	Name     string
	Quantity int
	UnitCost int64
	Location string
}

func (s *WarehouseService) CreateItem(ctx context.Context, in CreateItemInput) (*domain.StockItem, error) {
	if in.SKU == "" {
		return nil, apperrors.InvalidInput("sku is required")
	}
	if in.Name == "" {
		return nil, apperrors.InvalidInput("item name is required")
	}
	if in.Quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if in.UnitCost < 0 {
		return nil, apperrors.InvalidInput("unit cost must not be negative")
	}

	now := time.Now().UTC()
	item := &domain.StockItem{
		ID:        uuid.New(),
		SKU:       in.SKU,
		Name:      in.Name,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Location:  in.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "stock item created",
		slog.String("item_id", item.ID.String()),
		slog.String("sku", item.SKU),
	)
	return item, nil
}

func (s *WarehouseService) GetItem(ctx context.Context, id uuid.UUID) (*domain.StockItem, error) {
	return s.repo.GetItem(ctx, id)
}

// UpdateItemInput carries mutable item fields.
type UpdateItemInput struct {
	Name     string
	UnitCost int64
	Location string
}

func (s *WarehouseService) UpdateItem(ctx context.Context, id uuid.UUID, in UpdateItemInput) (*domain.StockItem, error) {
	if in.Name == "" {
		return nil, apperrors.InvalidInput("item name is required")
	}
	if in.UnitCost < 0 {
		return nil, apperrors.InvalidInput("unit cost must not be negative")
	}

	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = in.Name
	item.UnitCost = in.UnitCost
	item.Location = in.Location
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *WarehouseService) ListItems(ctx context.Context, params pagination.Params) ([]*domain.StockItem, int64, error) {
	return s.repo.ListItems(ctx, params)
}

// Adjust changes an item's quantity by delta. Quantity can never go below
// zero; the repository enforces this atomically.
func (s *WarehouseService) Adjust(ctx context.Context, itemID uuid.UUID, delta int, reason string) (*domain.StockItem, error) {
	if delta == 0 {
		return nil, apperrors.InvalidInput("delta must not be zero")
	}
	if !domain.IsValidReason(reason) {
		return nil, apperrors.InvalidInput("unknown movement reason: " + reason)
	}

	item, err := s.repo.Adjust(ctx, itemID, delta, reason)
	if err != nil {
		return nil, err
	}

	s.events.StockAdjusted(ctx, item, delta, reason)
	s.logger.InfoContext(ctx, "stock adjusted",
		slog.String("item_id", itemID.String()),
		slog.Int("delta", delta),
		slog.String("reason", reason),
	)
	return item, nil
}

func (s *WarehouseService) ListMovements(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]*domain.StockMovement, int64, error) {
	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListMovements(ctx, itemID, params)
}
