package domain

import (
	"time"

	"github.com/google/uuid"
)

// Movement reasons.
const (
	ReasonReceived   = "received"
	ReasonSold       = "sold"
	ReasonDamaged    = "damaged"
	ReasonCorrection = "correction"
)

var validReasons = map[string]struct{}{
	ReasonReceived:   {},
	ReasonSold:       {},
	ReasonDamaged:    {},
	ReasonCorrection: {},
}

// IsValidReason reports whether r is a known movement reason.
func IsValidReason(r string) bool {
	_, ok := validReasons[r]
	return ok
}

// StockItem is a physical item tracked in the warehouse. UnitCost is in
// minor currency units.
type StockItem struct {
	ID        uuid.UUID `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitCost  int64     `json:"unit_cost"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockValue returns the minor-unit value of the held quantity.
func (s *StockItem) StockValue() int64 {
	return s.UnitCost * int64(s.Quantity)
}

// StockMovement records a single quantity adjustment. Delta is positive for
// inbound stock, negative for outbound.
type StockMovement struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
