package provider

import (
	"context"
)

// ChargeInput describes a payment to capture.
type ChargeInput struct {
	OrderID       string
	Amount        int64
	Currency      string
	CustomerEmail string
	PaymentMethod string
}

// ChargeResult is the provider's answer to a successful charge.
type ChargeResult struct {
	Reference string
}

// Provider abstracts the payment processor. Implementations must be safe for
// concurrent use.
type Provider interface {
	Name() string
	Charge(ctx context.Context, in *ChargeInput) (*ChargeResult, error)
	Refund(ctx context.Context, reference string, amount int64) error
}
