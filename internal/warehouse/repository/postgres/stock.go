package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/owltechengineer/ecoceo-sub006/internal/warehouse/domain"
	"github.com/owltechengineer/ecoceo-sub006/pkg/database"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

const uniqueViolation = "23505"

// ErrInsufficientStock is returned when an adjustment would take an item's
// quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// StockRepository persists stock items and their movement history.
type StockRepository struct {
	db database.DB
}

func NewStockRepository(db database.DB) *StockRepository {
	return &StockRepository{db: db}
}

const itemColumns = `id, sku, name, quantity, unit_cost, location, created_at, updated_at`

func (r *StockRepository) CreateItem(ctx context.Context, item *domain.StockItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stock_items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.SKU, item.Name, item.Quantity, item.UnitCost, item.Location, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.AlreadyExists("stock item", "sku", item.SKU)
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

func (r *StockRepository) GetItem(ctx context.Context, id uuid.UUID) (*domain.StockItem, error) {
	var item domain.StockItem
	err := r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM stock_items WHERE id = $1`, id).Scan(
		&item.ID, &item.SKU, &item.Name, &item.Quantity, &item.UnitCost, &item.Location, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("stock item", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get stock item %s: %w", id, err)
	}
	return &item, nil
}

func (r *StockRepository) UpdateItem(ctx context.Context, item *domain.StockItem) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE stock_items
		SET name = $2, unit_cost = $3, location = $4, updated_at = NOW()
		WHERE id = $1`,
		item.ID, item.Name, item.UnitCost, item.Location,
	)
	if err != nil {
		return fmt.Errorf("update stock item %s: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("stock item", item.ID.String())
	}
	return nil
}

func (r *StockRepository) ListItems(ctx context.Context, params pagination.Params) ([]*domain.StockItem, int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+itemColumns+`, COUNT(*) OVER() AS total
		FROM stock_items
		ORDER BY sku
		LIMIT $1 OFFSET $2`,
		params.PerPage, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()

	var items []*domain.StockItem
	var total int64
	for rows.Next() {
		var item domain.StockItem
		if err := rows.Scan(
			&item.ID, &item.SKU, &item.Name, &item.Quantity, &item.UnitCost,
			&item.Location, &item.CreatedAt, &item.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan stock item row: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate stock item rows: %w", err)
	}
	return items, total, nil
}

// Adjust changes an item's quantity by delta and records the movement in the
// same transaction. The conditional UPDATE enforces that quantities never go
// negative without a round trip for the current value.
func (r *StockRepository) Adjust(ctx context.Context, itemID uuid.UUID, delta int, reason string) (*domain.StockItem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin adjust tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var item domain.StockItem
	err = tx.QueryRow(ctx, `
		UPDATE stock_items
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING `+itemColumns,
		itemID, delta,
	).Scan(
		&item.ID, &item.SKU, &item.Name, &item.Quantity, &item.UnitCost,
		&item.Location, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the item is missing or the delta would go negative.
		if _, getErr := r.GetItem(ctx, itemID); getErr != nil {
			return nil, getErr
		}
		return nil, &apperrors.AppError{
			Code:    "INSUFFICIENT_STOCK",
			Message: "adjustment would take stock below zero",
			Status:  http.StatusConflict,
			Err:     ErrInsufficientStock,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("adjust stock item %s: %w", itemID, err)
	}

	movement := domain.StockMovement{
		ID:        uuid.New(),
		ItemID:    itemID,
		Delta:     delta,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (id, item_id, delta, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		movement.ID, movement.ItemID, movement.Delta, movement.Reason, movement.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert stock movement: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit adjust tx: %w", err)
	}
	return &item, nil
}

func (r *StockRepository) ListMovements(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]*domain.StockMovement, int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, item_id, delta, reason, created_at, COUNT(*) OVER() AS total
		FROM stock_movements
		WHERE item_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		itemID, params.PerPage, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var movements []*domain.StockMovement
	var total int64
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Delta, &m.Reason, &m.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan stock movement row: %w", err)
		}
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate stock movement rows: %w", err)
	}
	return movements, total, nil
}
