package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	items := []OrderItem{
		{Price: 10, Quantity: 2},
		{Price: 5, Quantity: 1},
	}
	subtotal, total := ComputeTotals(items, 3, 2, 1)
	assert.Equal(t, 25.0, subtotal)
	assert.Equal(t, 29.0, total)
}

func TestComputeTotalsDefaults(t *testing.T) {
	subtotal, total := ComputeTotals(nil, 0, 0, 0)
	assert.Equal(t, 0.0, subtotal)
	assert.Equal(t, 0.0, total)

	subtotal, total = ComputeTotals([]OrderItem{{Price: 0.1, Quantity: 3}}, 0, 0, 0)
	assert.Equal(t, 0.3, subtotal)
	assert.Equal(t, 0.3, total)
}

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "processing", " On_Hold ", "COMPLETED", "cancelled", "REFUNDED", "failed"} {
		st, err := ParseOrderStatus(s)
		require.NoError(t, err, s)
		assert.NotEmpty(t, st)
	}
	_, err := ParseOrderStatus("SHIPPED")
	assert.ErrorIs(t, err, ErrUnknownStatus)
	_, err = ParseOrderStatus("")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(OrderStatusCompleted))
	assert.True(t, IsTerminalStatus(OrderStatusCancelled))
	assert.True(t, IsTerminalStatus(OrderStatusRefunded))
	assert.True(t, IsTerminalStatus(OrderStatusFailed))
	assert.False(t, IsTerminalStatus(OrderStatusPending))
	assert.False(t, IsTerminalStatus(OrderStatusProcessing))
	assert.False(t, IsTerminalStatus(OrderStatusOnHold))
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	n1 := NewOrderNumber(now)
	n2 := NewOrderNumber(now)
	assert.Regexp(t, `^VT-20250901-[0-9A-F]{6}$`, n1)
	assert.NotEqual(t, n1, n2)
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{0, "USD", "USD 0.00"},
		{5, "USD", "USD 5.00"},
		{1234.5, "USD", "USD 1,234.50"},
		{1234567.891, "EUR", "EUR 1,234,567.89"},
		{-9876.5, "ARS", "ARS -9,876.50"},
		{999.99, "", "999.99"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatCurrency(c.amount, c.currency))
	}
}
