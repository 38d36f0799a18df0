package cms

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/httpclient"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.DiscardHandler)
	base := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("cms-test-"+t.Name()), logger)

	return NewClient(srv.URL, "test-token", cb, logger)
}

func TestGetProduct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/site-audit", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {
			"id": "site-audit",
			"provider_id": "prod_9xK",
			"title": "Site Audit",
			"price": {"unit_amount": 4900, "currency": "eur"}
		}}`))
	})

	p, err := client.GetProduct(context.Background(), "site-audit")
	require.NoError(t, err)

	assert.Equal(t, "site-audit", p.ID)
	assert.Equal(t, "prod_9xK", p.ProviderID)
	assert.Equal(t, int64(4900), p.Price.Cents)
	assert.Equal(t, "EUR", p.Price.Currency)
}

func TestGetProductNumericPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"id": "logo-pack", "title": "Logo Pack", "price": 19.99}}`))
	})

	p, err := client.GetProduct(context.Background(), "logo-pack")
	require.NoError(t, err)
	assert.Equal(t, int64(1999), p.Price.Cents)
}

func TestGetProductNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetProductNullBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": null}`))
	})

	_, err := client.GetProduct(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetProductBrokenPriceIsHardError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"id": "broken", "title": "Broken", "price": "call us"}}`))
	})

	_, err := client.GetProduct(context.Background(), "broken")
	require.Error(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, apperrors.HTTPStatus(err))
}

func TestGetProductRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data": {"id": "retry", "title": "Retry", "price": 5}}`))
	})

	p, err := client.GetProduct(context.Background(), "retry")
	require.NoError(t, err)

	assert.Equal(t, int64(500), p.Price.Cents)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetProductEmptyID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.GetProduct(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestListProductsSkipsBrokenPrices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		_, _ = w.Write([]byte(`{"data": [
			{"id": "a", "title": "A", "price": 10},
			{"id": "b", "title": "B", "price": "free"},
			{"id": "c", "title": "C", "price": {"unit_amount": 500}}
		]}`))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "a", products[0].ID)
	assert.Equal(t, int64(1000), products[0].Price.Cents)
	assert.Equal(t, "c", products[1].ID)
	assert.Equal(t, int64(500), products[1].Price.Cents)
}
