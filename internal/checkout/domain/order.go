package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderStatusPending  = "pending"
	OrderStatusPaid     = "paid"
	OrderStatusFailed   = "failed"
	OrderStatusRefunded = "refunded"
	OrderStatusCanceled = "canceled"
)

var validOrderStatuses = map[string]struct{}{
	OrderStatusPending:  {},
	OrderStatusPaid:     {},
	OrderStatusFailed:   {},
	OrderStatusRefunded: {},
	OrderStatusCanceled: {},
}

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s string) bool {
	_, ok := validOrderStatuses[s]
	return ok
}

// OrderItem is an order line, frozen from the cart at checkout time.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// LineTotal returns the minor-unit total for this line.
func (i *OrderItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Order is a placed checkout. TotalAmount is in minor currency units and is
// frozen at placement; later catalog price changes do not affect it.
type Order struct {
	ID            uuid.UUID   `json:"id"`
	SessionID     string      `json:"session_id"`
	CustomerEmail string      `json:"customer_email"`
	Items         []OrderItem `json:"items"`
	TotalAmount   int64       `json:"total_amount"`
	Currency      string      `json:"currency"`
	Status        string      `json:"status"`
	PaymentRef    string      `json:"payment_ref,omitempty"`
	FailureReason string      `json:"failure_reason,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// CanRefund reports whether the order is in a refundable state.
func (o *Order) CanRefund() bool {
	return o.Status == OrderStatusPaid
}
