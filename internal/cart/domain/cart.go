package domain

import (
	"time"
)

// Limits applied to every cart mutation.
const (
	MaxItemsPerCart    = 50
	MaxQuantityPerItem = 99
)

// CartItem is a single line in a cart. UnitPrice is in minor currency units
// and is captured from the catalog at add time.
type CartItem struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
}

// LineTotal returns the minor-unit total for this line.
func (i *CartItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Cart is the per-session shopping cart. Totals and item counts are always
// derived from Items, never stored as authoritative state. Version backs
// optimistic concurrency on save.
type Cart struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	Currency  string     `json:"currency"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TotalAmount returns the cart total in minor currency units.
func (c *Cart) TotalAmount() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].LineTotal()
	}
	return total
}

// TotalMajor returns the cart total in major currency units.
func (c *Cart) TotalMajor() float64 {
	return float64(c.TotalAmount()) / 100
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}

// FindItemIndex returns the index of the line with the given product id,
// or -1 when the cart has no such line.
func (c *Cart) FindItemIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// ItemQuantity returns the quantity of the given product, 0 when absent.
func (c *Cart) ItemQuantity(productID string) int {
	if idx := c.FindItemIndex(productID); idx >= 0 {
		return c.Items[idx].Quantity
	}
	return 0
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Compact drops lines with non-positive quantities. Hydrated snapshots from
// older writers may carry them; they must never survive into derived totals.
func (c *Cart) Compact() {
	kept := c.Items[:0]
	for i := range c.Items {
		if c.Items[i].Quantity > 0 {
			kept = append(kept, c.Items[i])
		}
	}
	c.Items = kept
}
