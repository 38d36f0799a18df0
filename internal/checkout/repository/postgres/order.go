package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/owltechengineer/ecoceo-sub006/internal/checkout/domain"
	"github.com/owltechengineer/ecoceo-sub006/pkg/database"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

// OrderRepository persists orders in Postgres. Order lines are stored as a
// JSONB column; they are immutable once the order is placed.
type OrderRepository struct {
	db database.DB
}

func NewOrderRepository(db database.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, session_id, customer_email, items, total_amount, currency, status, payment_ref, failure_reason, created_at, updated_at`

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		order.ID, order.SessionID, order.CustomerEmail, items, order.TotalAmount,
		order.Currency, order.Status, order.PaymentRef, order.FailureReason,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("order", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return order, nil
}

// UpdateStatus transitions the order and records the provider reference or
// failure reason alongside it.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status, paymentRef, failureReason string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, payment_ref = $3, failure_reason = $4, updated_at = NOW()
		WHERE id = $1`,
		id, status, paymentRef, failureReason,
	)
	if err != nil {
		return fmt.Errorf("update order %s status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("order", id.String())
	}
	return nil
}

// ListBySession returns the session's orders, newest first.
func (r *OrderRepository) ListBySession(ctx context.Context, sessionID string, params pagination.Params) ([]*domain.Order, int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`, COUNT(*) OVER() AS total
		FROM orders
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		sessionID, params.PerPage, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var orders []*domain.Order
	var total int64
	for rows.Next() {
		var o domain.Order
		var items []byte
		if err := rows.Scan(
			&o.ID, &o.SessionID, &o.CustomerEmail, &items, &o.TotalAmount,
			&o.Currency, &o.Status, &o.PaymentRef, &o.FailureReason,
			&o.CreatedAt, &o.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, 0, fmt.Errorf("decode order items: %w", err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, total, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var items []byte
	if err := row.Scan(
		&o.ID, &o.SessionID, &o.CustomerEmail, &items, &o.TotalAmount,
		&o.Currency, &o.Status, &o.PaymentRef, &o.FailureReason,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return &o, nil
}
