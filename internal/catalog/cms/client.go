package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/owltechengineer/ecoceo-sub006/internal/catalog/domain"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/httpclient"
)

const (
	getMaxTries        = 3
	getInitialInterval = 200 * time.Millisecond
)

// Client fetches catalog content from the headless CMS. All outbound calls
// go through a retrying HTTP client wrapped in a circuit breaker, so a CMS
// outage degrades the storefront instead of hanging it.
type Client struct {
	baseURL  string
	apiToken string
	http     *httpclient.CircuitBreakerClient
	logger   *slog.Logger
}

// NewClient creates a CMS client for the given base URL. The token is sent
// as a bearer credential when non-empty.
func NewClient(baseURL, apiToken string, httpClient *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		http:     httpClient,
		logger:   logger,
	}
}

// cmsProduct is the raw CMS document. The price is kept as raw JSON because
// the CMS serves two shapes and individual documents may be malformed; list
// responses skip broken documents instead of failing wholesale.
type cmsProduct struct {
	ID          string          `json:"id"`
	ProviderID  string          `json:"provider_id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Price       json.RawMessage `json:"price"`
}

func (c *cmsProduct) toDomain() (*domain.Product, error) {
	var price domain.Price
	if err := json.Unmarshal(c.Price, &price); err != nil {
		return nil, fmt.Errorf("product %s: %w", c.ID, err)
	}
	return &domain.Product{
		ID:          c.ID,
		ProviderID:  c.ProviderID,
		Title:       c.Title,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Price:       price,
	}, nil
}

// ListProducts fetches the full catalog. Documents with an unrecognized
// price shape are skipped with a warning; they must never reach a cart.
func (c *Client) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	body, err := c.get(ctx, "/api/products")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []cmsProduct `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode cms product list: %w", err)
	}

	products := make([]*domain.Product, 0, len(payload.Data))
	for i := range payload.Data {
		p, err := payload.Data[i].toDomain()
		if err != nil {
			c.logger.Warn("skipping cms product with invalid price",
				slog.String("product_id", payload.Data[i].ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		products = append(products, p)
	}

	return products, nil
}

// GetProduct fetches a single product by id. Unlike ListProducts, a broken
// price here is a hard error: callers on the add-to-cart path must not fall
// back to a zero price.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	body, err := c.get(ctx, "/api/products/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data *cmsProduct `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode cms product: %w", err)
	}
	if payload.Data == nil {
		return nil, apperrors.NotFound("product", id)
	}

	p, err := payload.Data.toDomain()
	if err != nil {
		return nil, &apperrors.AppError{
			Code:    "INVALID_PRICE",
			Message: "product has an unrecognized price shape",
			Status:  http.StatusUnprocessableEntity,
			Err:     err,
		}
	}
	return p, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create cms request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	// Retry transient failures (transport errors, 5xx) a bounded number of
	// times. An open breaker fails immediately: retrying would only hammer
	// a CMS already known to be down.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = getInitialInterval
	resp, err := backoff.Retry(ctx, func() (*http.Response, error) {
		resp, err := c.http.Do(ctx, req.Clone(ctx))
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(getMaxTries))
	if err != nil {
		return nil, fmt.Errorf("cms request %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.NotFound("product", strings.TrimPrefix(path, "/api/products/"))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("cms returned status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read cms response: %w", err)
	}
	return body, nil
}
