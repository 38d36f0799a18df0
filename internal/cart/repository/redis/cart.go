package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/owltechengineer/ecoceo-sub006/internal/cart/domain"
	"github.com/owltechengineer/ecoceo-sub006/internal/cart/repository"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
)

const keyPrefix = "cart:"

// snapshot is the persisted cart layout. The derived fields are written for
// the benefit of external readers (dashboards, debugging) but are ignored on
// load; totals are always recomputed from the items.
type snapshot struct {
	domain.Cart
	TotalAmount int64 `json:"total_amount"`
	ItemCount   int   `json:"item_count"`
}

func newSnapshot(cart *domain.Cart) snapshot {
	return snapshot{
		Cart:        *cart,
		TotalAmount: cart.TotalAmount(),
		ItemCount:   cart.ItemCount(),
	}
}

// CartRepository stores cart snapshots in Redis, one key per session, with a
// sliding TTL. Saves use WATCH-based optimistic concurrency keyed on the
// snapshot version.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

// Get loads the cart for a session. Returns a not-found error when the
// session has no snapshot, and ErrCorruptSnapshot when the stored payload
// does not decode.
func (r *CartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NotFound("cart", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("get cart %s: %w", sessionID, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %s", repository.ErrCorruptSnapshot, err)
	}

	cart := snap.Cart
	cart.Compact()
	return &cart, nil
}

// SaveIfVersion writes the snapshot if the stored version still matches
// expectedVersion. Corrupt stored snapshots are treated as overwritable so a
// session can recover without manual intervention.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error) {
	saved := false

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key(cart.SessionID)).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if expectedVersion != 0 {
				return nil
			}
		case err != nil:
			return fmt.Errorf("get cart %s: %w", cart.SessionID, err)
		default:
			var current snapshot
			if jsonErr := json.Unmarshal(data, &current); jsonErr == nil && current.Version != expectedVersion {
				return nil
			}
		}

		cart.Version = expectedVersion + 1
		payload, err := json.Marshal(newSnapshot(cart))
		if err != nil {
			return fmt.Errorf("marshal cart %s: %w", cart.SessionID, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(cart.SessionID), payload, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		saved = true
		return nil
	}, key(cart.SessionID))

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("save cart %s: %w", cart.SessionID, err)
	}
	return saved, nil
}

// Delete removes the session's snapshot.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete cart %s: %w", sessionID, err)
	}
	return nil
}
