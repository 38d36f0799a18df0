package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owltechengineer/ecoceo-sub006/internal/cart/domain"
	"github.com/owltechengineer/ecoceo-sub006/internal/cart/repository"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
)

func setupRepo(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCartRepository(client, time.Hour), mr
}

func testCart(sessionID string) *domain.Cart {
	return &domain.Cart{
		ID:        "c-1",
		SessionID: sessionID,
		Currency:  "EUR",
		Items: []domain.CartItem{
			{ProductID: "site-audit", Title: "Site Audit", UnitPrice: 4900, Quantity: 2},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	cart := testCart("sess-1")
	saved, err := repo.SaveIfVersion(ctx, cart, 0)
	require.NoError(t, err)
	require.True(t, saved)
	assert.Equal(t, 1, cart.Version)

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)

	assert.Equal(t, cart.ID, got.ID)
	assert.Equal(t, cart.SessionID, got.SessionID)
	assert.Equal(t, cart.Items, got.Items)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, int64(9800), got.TotalAmount())
}

func TestGetMissingCart(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveIfVersionStaleWriterLoses(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	cart := testCart("sess-2")
	saved, err := repo.SaveIfVersion(ctx, cart, 0)
	require.NoError(t, err)
	require.True(t, saved)

	// A second writer still holding the pre-save state.
	stale := testCart("sess-2")
	stale.Items[0].Quantity = 99

	saved, err = repo.SaveIfVersion(ctx, stale, 0)
	require.NoError(t, err)
	assert.False(t, saved)

	got, err := repo.Get(ctx, "sess-2")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ItemCount())
}

func TestSaveIfVersionSequentialUpdates(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	cart := testCart("sess-3")
	saved, err := repo.SaveIfVersion(ctx, cart, 0)
	require.NoError(t, err)
	require.True(t, saved)

	cart.Items[0].Quantity = 5
	saved, err = repo.SaveIfVersion(ctx, cart, cart.Version)
	require.NoError(t, err)
	require.True(t, saved)
	assert.Equal(t, 2, cart.Version)

	got, err := repo.Get(ctx, "sess-3")
	require.NoError(t, err)
	assert.Equal(t, 5, got.ItemQuantity("site-audit"))
}

func TestGetCorruptSnapshot(t *testing.T) {
	repo, mr := setupRepo(t)

	mr.Set("cart:sess-4", "{not json")

	_, err := repo.Get(context.Background(), "sess-4")
	assert.ErrorIs(t, err, repository.ErrCorruptSnapshot)
}

func TestSaveOverwritesCorruptSnapshot(t *testing.T) {
	repo, mr := setupRepo(t)
	ctx := context.Background()

	mr.Set("cart:sess-5", "{not json")

	cart := testCart("sess-5")
	saved, err := repo.SaveIfVersion(ctx, cart, 0)
	require.NoError(t, err)
	assert.True(t, saved)

	got, err := repo.Get(ctx, "sess-5")
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ID)
}

func TestDelete(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	cart := testCart("sess-6")
	_, err := repo.SaveIfVersion(ctx, cart, 0)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "sess-6"))

	_, err = repo.Get(ctx, "sess-6")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Deleting again is a no-op.
	require.NoError(t, repo.Delete(ctx, "sess-6"))
}

func TestSaveSetsTTL(t *testing.T) {
	repo, mr := setupRepo(t)

	cart := testCart("sess-7")
	_, err := repo.SaveIfVersion(context.Background(), cart, 0)
	require.NoError(t, err)

	ttl := mr.TTL("cart:sess-7")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestGetCompactsZeroQuantityLines(t *testing.T) {
	repo, mr := setupRepo(t)

	mr.Set("cart:sess-8", `{
		"id": "c-8", "session_id": "sess-8", "currency": "EUR", "version": 1,
		"items": [
			{"product_id": "a", "title": "A", "unit_price": 100, "quantity": 2},
			{"product_id": "b", "title": "B", "unit_price": 200, "quantity": 0}
		],
		"total_amount": 99999, "item_count": 42
	}`)

	got, err := repo.Get(context.Background(), "sess-8")
	require.NoError(t, err)

	// Stored derived fields are ignored; totals come from the items.
	assert.Len(t, got.Items, 1)
	assert.Equal(t, int64(200), got.TotalAmount())
	assert.Equal(t, 2, got.ItemCount())
}
