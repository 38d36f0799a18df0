package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owltechengineer/ecoceo-sub006/internal/checkout/domain"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

func newMockRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	return NewOrderRepository(mockPool), mockPool
}

func sampleOrder() *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:            uuid.New(),
		SessionID:     "sess-1",
		CustomerEmail: "client@example.com",
		Items: []domain.OrderItem{
			{ProductID: "site-audit", Title: "Site Audit", UnitPrice: 4900, Quantity: 1},
		},
		TotalAmount: 4900,
		Currency:    "EUR",
		Status:      domain.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateOrder(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	order := sampleOrder()

	mockPool.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, order.SessionID, order.CustomerEmail, pgxmock.AnyArg(),
			order.TotalAmount, order.Currency, order.Status, order.PaymentRef,
			order.FailureReason, order.CreatedAt, order.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), order))
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	order := sampleOrder()
	items := []byte(`[{"product_id":"site-audit","title":"Site Audit","unit_price":4900,"quantity":1}]`)

	rows := pgxmock.NewRows([]string{
		"id", "session_id", "customer_email", "items", "total_amount",
		"currency", "status", "payment_ref", "failure_reason", "created_at", "updated_at",
	}).AddRow(order.ID, order.SessionID, order.CustomerEmail, items, order.TotalAmount,
		order.Currency, order.Status, "", "", order.CreatedAt, order.UpdatedAt)

	mockPool.ExpectQuery("SELECT .+ FROM orders WHERE id").
		WithArgs(order.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, order.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(4900), got.Items[0].UnitPrice)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	id := uuid.New()

	mockPool.ExpectQuery("SELECT .+ FROM orders WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "session_id", "customer_email", "items", "total_amount",
			"currency", "status", "payment_ref", "failure_reason", "created_at", "updated_at",
		}))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	id := uuid.New()

	mockPool.ExpectExec("UPDATE orders").
		WithArgs(id, domain.OrderStatusPaid, "ch_123", "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), id, domain.OrderStatusPaid, "ch_123", ""))
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	id := uuid.New()

	mockPool.ExpectExec("UPDATE orders").
		WithArgs(id, domain.OrderStatusPaid, "ch_123", "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), id, domain.OrderStatusPaid, "ch_123", "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListBySession(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	order := sampleOrder()
	items := []byte(`[]`)

	rows := pgxmock.NewRows([]string{
		"id", "session_id", "customer_email", "items", "total_amount",
		"currency", "status", "payment_ref", "failure_reason", "created_at", "updated_at", "total",
	}).AddRow(order.ID, order.SessionID, order.CustomerEmail, items, order.TotalAmount,
		order.Currency, order.Status, "", "", order.CreatedAt, order.UpdatedAt, int64(1))

	mockPool.ExpectQuery("SELECT .+ FROM orders").
		WithArgs("sess-1", 20, 0).
		WillReturnRows(rows)

	orders, total, err := repo.ListBySession(context.Background(), "sess-1", pagination.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}
