package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotals(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ProductID: "a", UnitPrice: 2500, Quantity: 3},
			{ProductID: "b", UnitPrice: 1999, Quantity: 1},
		},
	}

	assert.Equal(t, int64(9499), cart.TotalAmount())
	assert.InDelta(t, 94.99, cart.TotalMajor(), 0.0001)
	assert.Equal(t, 4, cart.ItemCount())
}

func TestCartTotalsEmpty(t *testing.T) {
	cart := &Cart{}

	assert.Equal(t, int64(0), cart.TotalAmount())
	assert.Equal(t, 0, cart.ItemCount())
	assert.True(t, cart.IsEmpty())
}

func TestFindItemIndex(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ProductID: "a"},
			{ProductID: "b"},
		},
	}

	assert.Equal(t, 1, cart.FindItemIndex("b"))
	assert.Equal(t, -1, cart.FindItemIndex("zzz"))
}

func TestItemQuantity(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{{ProductID: "a", Quantity: 7}},
	}

	assert.Equal(t, 7, cart.ItemQuantity("a"))
	assert.Equal(t, 0, cart.ItemQuantity("absent"))
}

func TestCompact(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ProductID: "a", Quantity: 2},
			{ProductID: "b", Quantity: 0},
			{ProductID: "c", Quantity: -1},
			{ProductID: "d", Quantity: 1},
		},
	}

	cart.Compact()

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, "a", cart.Items[0].ProductID)
	assert.Equal(t, "d", cart.Items[1].ProductID)
}

func TestLineTotal(t *testing.T) {
	item := CartItem{UnitPrice: 833, Quantity: 3}
	assert.Equal(t, int64(2499), item.LineTotal())
}
