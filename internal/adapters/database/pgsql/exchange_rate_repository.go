package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/apperrors"
	portsrepo "github.com/mptrsn/corpledger/internal/core/ports/repositories"
)

type PgxExchangeRateRepository struct {
	pool *pgxpool.Pool
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// NewPgxExchangeRateRepository creates a new repository for exchange rate data.
func NewPgxExchangeRateRepository(pool *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{pool: pool}
}

// FindExchangeRate returns the stored rate for a currency pair.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	query := `SELECT rate FROM exchange_rates WHERE from_currency = $1 AND to_currency = $2;`
	var rate decimal.Decimal
	err := r.pool.QueryRow(ctx, query, fromCurrency, toCurrency).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: exchange rate %s/%s", apperrors.ErrNotFound, fromCurrency, toCurrency)
		}
		return decimal.Zero, fmt.Errorf("failed to find exchange rate %s/%s: %w", fromCurrency, toCurrency, err)
	}
	return rate, nil
}

// SaveExchangeRate inserts or replaces the rate for a currency pair.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, fromCurrency, toCurrency string, rate decimal.Decimal, userID string) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO exchange_rates (from_currency, to_currency, rate, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $4, $5)
		ON CONFLICT (from_currency, to_currency)
		DO UPDATE SET rate = EXCLUDED.rate, last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	if _, err := r.pool.Exec(ctx, query, fromCurrency, toCurrency, rate, now, userID); err != nil {
		return fmt.Errorf("failed to save exchange rate %s/%s: %w", fromCurrency, toCurrency, err)
	}
	return nil
}
