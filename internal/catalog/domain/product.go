package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownPriceShape is returned when a product price is neither a plain
// decimal number nor an object carrying a minor-unit amount. Unrecognized
// shapes fail hard instead of degrading to a zero price, so a catalog entry
// with a broken price can never be sold for free.
var ErrUnknownPriceShape = errors.New("unrecognized price shape")

// Price is a product price normalized to minor currency units (cents).
//
// The headless CMS stores prices as plain decimal numbers in major units
// (e.g. 19.99), while entries synced from the payment provider carry an
// integer `unit_amount` in minor units (e.g. 1999). UnmarshalJSON accepts
// both shapes and normalizes them once, at the catalog boundary.
type Price struct {
	Cents    int64
	Currency string
}

type providerPrice struct {
	UnitAmount *int64 `json:"unit_amount"`
	Currency   string `json:"currency"`
}

// UnmarshalJSON normalizes either price shape to minor units.
func (p *Price) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrUnknownPriceShape
	}

	if trimmed[0] == '{' {
		var obj providerPrice
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return fmt.Errorf("parse price object: %w", err)
		}
		if obj.UnitAmount == nil {
			return ErrUnknownPriceShape
		}
		if *obj.UnitAmount < 0 {
			return fmt.Errorf("price must not be negative: %d", *obj.UnitAmount)
		}
		p.Cents = *obj.UnitAmount
		p.Currency = strings.ToUpper(obj.Currency)
		return nil
	}

	var major float64
	if err := json.Unmarshal(trimmed, &major); err != nil {
		return ErrUnknownPriceShape
	}
	if major < 0 {
		return fmt.Errorf("price must not be negative: %v", major)
	}
	p.Cents = int64(math.Round(major * 100))
	return nil
}

// MarshalJSON always emits the minor-unit object shape.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(providerPrice{UnitAmount: &p.Cents, Currency: p.Currency})
}

// Major returns the price in major currency units.
func (p Price) Major() float64 {
	return float64(p.Cents) / 100
}

// Product is a catalog entry as served to the storefront. It is read-only
// from the cart's perspective.
type Product struct {
	ID          string `json:"id"`
	ProviderID  string `json:"provider_id,omitempty"`
	Title       string `json:"title"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Price       Price  `json:"price"`
}

// CanonicalID returns the single identifier the cart matches items by.
// The CMS id is preferred; the payment-provider id is the fallback for
// entries that only exist in the provider catalog. Returns false when the
// product carries neither.
func (p *Product) CanonicalID() (string, bool) {
	if p.ID != "" {
		return p.ID, true
	}
	if p.ProviderID != "" {
		return p.ProviderID, true
	}
	return "", false
}
