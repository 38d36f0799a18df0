package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/owltechengineer/ecoceo-sub006/internal/cart/domain"
	"github.com/owltechengineer/ecoceo-sub006/internal/cart/repository"
	catalogdomain "github.com/owltechengineer/ecoceo-sub006/internal/catalog/domain"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
)

// saveRetries bounds the read-modify-write loop before giving up with a
// conflict error.
const saveRetries = 3

const defaultCurrency = "EUR"

// ProductSource resolves products for add-to-cart. Satisfied by the CMS
// catalog client; prices always come from here, never from the request.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error)
}

// EventPublisher publishes cart lifecycle events.
type EventPublisher interface {
	CartUpdated(ctx context.Context, cart *cartdomain.Cart)
	CartCleared(ctx context.Context, sessionID string)
}

// CartService implements the cart state transitions. All mutations are
// read-modify-write cycles guarded by the repository's versioned save.
type CartService struct {
	repo     repository.CartRepository
	products ProductSource
	events   EventPublisher
	logger   *slog.Logger
}

func NewCartService(repo repository.CartRepository, products ProductSource, events EventPublisher, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		events:   events,
		logger:   logger,
	}
}

// GetCart returns the session's cart. A session without a snapshot gets an
// empty cart; a corrupt snapshot is dropped and the session starts over.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*cartdomain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	return s.loadOrCreate(ctx, sessionID)
}

// AddItem resolves the product from the catalog and adds qty units to the
// cart, merging with an existing line for the same product.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID string, qty int) (*cartdomain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if qty < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}
	if qty > cartdomain.MaxQuantityPerItem {
		return nil, apperrors.InvalidInput("quantity exceeds the per-item limit")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	canonicalID, ok := product.CanonicalID()
	if !ok {
		return nil, apperrors.InvalidInput("product has no usable identifier")
	}

	return s.mutate(ctx, sessionID, func(cart *cartdomain.Cart) error {
		if idx := cart.FindItemIndex(canonicalID); idx >= 0 {
			newQty := cart.Items[idx].Quantity + qty
			if newQty > cartdomain.MaxQuantityPerItem {
				return apperrors.InvalidInput("quantity exceeds the per-item limit")
			}
			cart.Items[idx].Quantity = newQty
			return nil
		}

		if len(cart.Items) >= cartdomain.MaxItemsPerCart {
			return apperrors.InvalidInput("cart is full")
		}

		cart.Items = append(cart.Items, cartdomain.CartItem{
			ProductID: canonicalID,
			Title:     product.Title,
			UnitPrice: product.Price.Cents,
			Quantity:  qty,
			ImageURL:  product.ImageURL,
		})
		if product.Price.Currency != "" {
			cart.Currency = product.Price.Currency
		}
		return nil
	})
}

// UpdateItemQuantity sets the quantity of an existing line. A quantity of
// zero or less removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, sessionID, productID string, qty int) (*cartdomain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if qty <= 0 {
		return s.RemoveItem(ctx, sessionID, productID)
	}
	if qty > cartdomain.MaxQuantityPerItem {
		return nil, apperrors.InvalidInput("quantity exceeds the per-item limit")
	}

	return s.mutate(ctx, sessionID, func(cart *cartdomain.Cart) error {
		idx := cart.FindItemIndex(productID)
		if idx < 0 {
			return apperrors.NotFound("cart item", productID)
		}
		cart.Items[idx].Quantity = qty
		return nil
	})
}

// RemoveItem removes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*cartdomain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	return s.mutate(ctx, sessionID, func(cart *cartdomain.Cart) error {
		idx := cart.FindItemIndex(productID)
		if idx < 0 {
			return apperrors.NotFound("cart item", productID)
		}
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		return nil
	})
}

// ClearCart drops the session's snapshot entirely.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}

	s.events.CartCleared(ctx, sessionID)
	s.logger.InfoContext(ctx, "cart cleared", slog.String("session_id", sessionID))
	return nil
}

// ItemQuantity returns how many units of a product the cart holds, 0 when
// the product is not in the cart.
func (s *CartService) ItemQuantity(ctx context.Context, sessionID, productID string) (int, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.ItemQuantity(productID), nil
}

func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(cart *cartdomain.Cart) error) (*cartdomain.Cart, error) {
	for attempt := 0; attempt < saveRetries; attempt++ {
		cart, err := s.loadOrCreate(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		expected := cart.Version
		if err := fn(cart); err != nil {
			return nil, err
		}
		cart.UpdatedAt = time.Now().UTC()

		saved, err := s.repo.SaveIfVersion(ctx, cart, expected)
		if err != nil {
			return nil, err
		}
		if saved {
			s.events.CartUpdated(ctx, cart)
			return cart, nil
		}

		s.logger.DebugContext(ctx, "cart save lost version race, retrying",
			slog.String("session_id", sessionID),
			slog.Int("attempt", attempt+1),
		)
	}

	return nil, apperrors.Conflict("cart was modified concurrently, retry the request")
}

func (s *CartService) loadOrCreate(ctx context.Context, sessionID string) (*cartdomain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	switch {
	case err == nil:
		return cart, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return s.newCart(sessionID), nil
	case errors.Is(err, repository.ErrCorruptSnapshot):
		s.logger.WarnContext(ctx, "dropping corrupt cart snapshot",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return s.newCart(sessionID), nil
	default:
		return nil, err
	}
}

func (s *CartService) newCart(sessionID string) *cartdomain.Cart {
	now := time.Now().UTC()
	return &cartdomain.Cart{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Items:     []cartdomain.CartItem{},
		Currency:  defaultCurrency,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
