package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entry directions.
const (
	DirectionIncome  = "income"
	DirectionExpense = "expense"
)

// IsValidDirection reports whether d is a known entry direction.
func IsValidDirection(d string) bool {
	return d == DirectionIncome || d == DirectionExpense
}

// Entry is a single financial record. Amount is always positive, in minor
// currency units; the direction carries the sign.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Direction  string    `json:"direction"`
	Amount     int64     `json:"amount"`
	Category   string    `json:"category"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary aggregates entries over a period.
type Summary struct {
	IncomeTotal  int64 `json:"income_total"`
	ExpenseTotal int64 `json:"expense_total"`
	Net          int64 `json:"net"`
	EntryCount   int64 `json:"entry_count"`
}
