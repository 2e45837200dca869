package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_SnapshotsPrices(t *testing.T) {
	userID := uuid.New()
	a, b := uuid.New(), uuid.New()
	lines := []CartItem{
		{ProductID: a, Quantity: 2},
		{ProductID: b, VariantID: "sku-1", Quantity: 3},
	}
	prices := map[uuid.UUID]decimal.Decimal{
		a: decimal.NewFromInt(10),
		b: decimal.NewFromInt(5),
	}

	order := NewOrder(userID, lines, prices)

	assert.Equal(t, OrderPending, order.Status)
	assert.Equal(t, "35.00", order.Total.StringFixed(2))
	require.Len(t, order.Items, 2)
	assert.Equal(t, "20", order.Items[0].LineTotal.String())
	assert.Equal(t, "sku-1", order.Items[1].VariantID)
	for _, it := range order.Items {
		assert.Equal(t, order.ID, it.OrderID)
	}
	assert.Equal(t, "10", order.Items[0].UnitPrice.String())
}

func TestNewOrder_DecimalPrices(t *testing.T) {
	p := uuid.New()
	order := NewOrder(uuid.New(), []CartItem{{ProductID: p, Quantity: 3}},
		map[uuid.UUID]decimal.Decimal{p: decimal.RequireFromString("0.10")})
	assert.Equal(t, "0.30", order.Total.StringFixed(2))
}

func TestNotFoundErrors(t *testing.T) {
	for _, err := range []error{ErrProductNotFound, ErrProfileNotFound, ErrCartItemNotFound, ErrOrderNotFound} {
		assert.True(t, errors.Is(err, ErrNotFound), err.Error())
		assert.True(t, errors.Is(fmt.Errorf("%w: x", err), ErrNotFound))
	}
	assert.False(t, errors.Is(ErrProductNotFound, ErrProfileNotFound))
	assert.False(t, errors.Is(ErrConflict, ErrNotFound))
}
