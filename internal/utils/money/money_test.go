package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mptrsn/corpledger/internal/utils/money"
)

func TestRound_HalfAwayFromZero(t *testing.T) {
	assert.True(t, money.Round(decimal.RequireFromString("2.345"), 2).Equal(decimal.RequireFromString("2.35")))
	assert.True(t, money.Round(decimal.RequireFromString("-2.345"), 2).Equal(decimal.RequireFromString("-2.35")))
	assert.True(t, money.Round(decimal.RequireFromString("2.344"), 2).Equal(decimal.RequireFromString("2.34")))
	assert.True(t, money.Round(decimal.RequireFromString("100"), 2).Equal(decimal.NewFromInt(100)))
}

func TestRound_RepeatedAdditionStaysExact(t *testing.T) {
	// One tenth added ten times is exactly one; no float drift sneaks in.
	tenth := decimal.RequireFromString("0.1")
	sum := decimal.Zero
	for i := 0; i < 10; i++ {
		sum = sum.Add(tenth)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(1)))
}

func TestWithinEpsilon(t *testing.T) {
	a := decimal.RequireFromString("100.00")

	assert.True(t, money.WithinEpsilon(a, decimal.RequireFromString("100.005")))
	assert.True(t, money.WithinEpsilon(a, decimal.RequireFromString("99.995")))
	// Exactly epsilon apart is not within.
	assert.False(t, money.WithinEpsilon(a, decimal.RequireFromString("100.01")))
	assert.False(t, money.WithinEpsilon(a, decimal.RequireFromString("100.02")))
}

func TestPrecision(t *testing.T) {
	assert.Equal(t, int32(2), money.Precision("USD"))
	assert.Equal(t, int32(0), money.Precision("JPY"))
	assert.Equal(t, money.DefaultPrecision, money.Precision("XYZ"))
}

func TestSymbolAndName(t *testing.T) {
	assert.Equal(t, "$", money.Symbol("USD"))
	assert.Equal(t, "Japanese Yen", money.Name("JPY"))
	// Unknown codes fall back to the code itself.
	assert.Equal(t, "XYZ", money.Symbol("XYZ"))
	assert.Equal(t, "XYZ", money.Name("XYZ"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1234.50", money.Format(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "¥1200", money.Format(decimal.NewFromInt(1200), "JPY"))
	assert.Equal(t, "€0.99", money.Format(decimal.RequireFromString("0.99"), "EUR"))
	assert.Equal(t, "XYZ 5.00", money.Format(decimal.NewFromInt(5), "XYZ"))
}
