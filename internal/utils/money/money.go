// Package money is the single source of truth for monetary rounding and formatting.
// Every monetary comparison and sum elsewhere in the engine must pass through Round
// before being compared for equality.
package money

import (
	"github.com/shopspring/decimal"
)

// DefaultPrecision is the decimal precision used when no currency-specific value applies.
const DefaultPrecision int32 = 2

// epsilon absorbs residual error in report-level balanced verdicts. It is one minor
// unit (0.01) and must never be widened to mask a genuine imbalance.
var epsilon = decimal.New(1, -2)

type currencyInfo struct {
	symbol    string
	name      string
	precision int32
}

// currencyTable maps currency codes to display symbol, name, and precision.
var currencyTable = map[string]currencyInfo{
	"USD": {"$", "US Dollar", 2},
	"EUR": {"€", "Euro", 2},
	"GBP": {"£", "Pound Sterling", 2},
	"JPY": {"¥", "Japanese Yen", 0},
	"INR": {"₹", "Indian Rupee", 2},
	"CAD": {"CA$", "Canadian Dollar", 2},
	"AUD": {"A$", "Australian Dollar", 2},
	"CHF": {"CHF ", "Swiss Franc", 2},
}

// Round rounds an amount half away from zero to the given number of decimal places.
func Round(amount decimal.Decimal, places int32) decimal.Decimal {
	return amount.Round(places)
}

// RoundDefault rounds at DefaultPrecision.
func RoundDefault(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(DefaultPrecision)
}

// Epsilon returns the tolerance used by report balanced verdicts.
func Epsilon() decimal.Decimal {
	return epsilon
}

// WithinEpsilon reports whether |a-b| < Epsilon().
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(epsilon)
}

// Precision returns the decimal precision for a currency code, or DefaultPrecision
// for unknown codes.
func Precision(currencyCode string) int32 {
	if info, ok := currencyTable[currencyCode]; ok {
		return info.precision
	}
	return DefaultPrecision
}

// Symbol returns the display symbol for a currency code, or the code itself for
// unknown codes.
func Symbol(currencyCode string) string {
	if info, ok := currencyTable[currencyCode]; ok {
		return info.symbol
	}
	return currencyCode
}

// Name returns the human-readable name for a currency code, or the code itself
// for unknown codes.
func Name(currencyCode string) string {
	if info, ok := currencyTable[currencyCode]; ok {
		return info.name
	}
	return currencyCode
}

// Format renders an amount for display with the currency's symbol and precision.
// Example: Format(1234.5, "USD") -> "$1234.50"; Format(1200, "JPY") -> "¥1200".
func Format(amount decimal.Decimal, currencyCode string) string {
	info, ok := currencyTable[currencyCode]
	if !ok {
		return currencyCode + " " + amount.StringFixed(DefaultPrecision)
	}
	return info.symbol + amount.StringFixed(info.precision)
}
