package repository

import (
	"context"
	"errors"

	"github.com/owltechengineer/ecoceo-sub006/internal/cart/domain"
)

// ErrCorruptSnapshot is returned when a stored cart snapshot cannot be
// decoded. Callers recover by starting the session over with an empty cart.
var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

// CartRepository abstracts cart snapshot persistence.
type CartRepository interface {
	// Get returns the cart for the session, or a not-found error.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// SaveIfVersion persists the cart only if the stored snapshot still has
	// the expected version; expectedVersion 0 means "no snapshot yet". On
	// success the cart's version is bumped and true is returned. A false
	// return with nil error means a concurrent writer won.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes the session's snapshot. Deleting a missing cart is not
	// an error.
	Delete(ctx context.Context, sessionID string) error
}
