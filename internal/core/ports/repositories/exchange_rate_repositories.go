package repositories

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExchangeRateReader defines read operations for stored exchange rates.
type ExchangeRateReader interface {
	// FindExchangeRate returns the most recent effective rate for a currency pair,
	// or apperrors.ErrNotFound when the pair is unknown.
	FindExchangeRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error)
}

// ExchangeRateWriter defines write operations for stored exchange rates.
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a rate for a currency pair.
	SaveExchangeRate(ctx context.Context, fromCurrency, toCurrency string, rate decimal.Decimal, userID string) error
}

// ExchangeRateRepositoryFacade combines reader and writer for exchange rates.
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
