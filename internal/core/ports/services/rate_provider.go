package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateProvider is the pluggable exchange-rate lookup boundary.
// Same-currency pairs always yield exactly 1. Implementations decide how unknown
// pairs behave; the engine wires a fallback wrapper that degrades them to a
// configured default rather than failing the transaction.
type RateProvider interface {
	GetExchangeRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error)
}
