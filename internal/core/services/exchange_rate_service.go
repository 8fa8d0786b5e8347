package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/apperrors"
	portsrepo "github.com/mptrsn/corpledger/internal/core/ports/repositories"
	portssvc "github.com/mptrsn/corpledger/internal/core/ports/services"
)

// StaticRateProvider serves exchange rates from an in-memory table keyed by
// "FROM/TO". It backs tests and deployments without a rate feed.
type StaticRateProvider struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
}

var _ portssvc.RateProvider = (*StaticRateProvider)(nil)

// NewStaticRateProvider creates an empty static provider.
func NewStaticRateProvider() *StaticRateProvider {
	return &StaticRateProvider{rates: make(map[string]decimal.Decimal)}
}

// SetRate registers the rate for converting from one currency into another.
func (p *StaticRateProvider) SetRate(fromCurrency, toCurrency string, rate decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rates[ratePairKey(fromCurrency, toCurrency)] = rate
}

// GetExchangeRate returns the registered rate or ErrNotFound for an unknown pair.
// The same-currency rate is always exactly one, even when no pairs are loaded.
func (p *StaticRateProvider) GetExchangeRate(_ context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	if fromCurrency == toCurrency {
		return decimal.NewFromInt(1), nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	rate, ok := p.rates[ratePairKey(fromCurrency, toCurrency)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: exchange rate %s", apperrors.ErrNotFound, ratePairKey(fromCurrency, toCurrency))
	}
	return rate, nil
}

// Pairs returns the registered pair keys, sorted. Used by diagnostics.
func (p *StaticRateProvider) Pairs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pairs := make([]string, 0, len(p.rates))
	for key := range p.rates {
		pairs = append(pairs, key)
	}
	sort.Strings(pairs)
	return pairs
}

func ratePairKey(fromCurrency, toCurrency string) string {
	return fromCurrency + "/" + toCurrency
}

// repoRateProvider resolves rates from the exchange-rate repository.
type repoRateProvider struct {
	BaseService
	repo portsrepo.ExchangeRateReader
}

var _ portssvc.RateProvider = (*repoRateProvider)(nil)

// NewRepoRateProvider creates a provider backed by the persistence adapter.
func NewRepoRateProvider(repo portsrepo.ExchangeRateReader) portssvc.RateProvider {
	return &repoRateProvider{repo: repo}
}

func (p *repoRateProvider) GetExchangeRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	if fromCurrency == toCurrency {
		return decimal.NewFromInt(1), nil
	}
	rate, err := p.repo.FindExchangeRate(ctx, fromCurrency, toCurrency)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, err
		}
		p.LogError(ctx, err, "failed to look up exchange rate", "from", fromCurrency, "to", toCurrency)
		return decimal.Zero, fmt.Errorf("%w: exchange rate lookup: %v", apperrors.ErrInternal, err)
	}
	return rate, nil
}

// rateService manages stored exchange rates. Reads go through the provider
// chain the journal resolves with, so a read here sees the same rate a posting
// would use, fallback included.
type rateService struct {
	BaseService
	repo     portsrepo.ExchangeRateRepositoryFacade
	provider portssvc.RateProvider
}

var _ portssvc.RateSvc = (*rateService)(nil)

// NewRateService creates the exchange-rate management service.
func NewRateService(repo portsrepo.ExchangeRateRepositoryFacade, provider portssvc.RateProvider) portssvc.RateSvc {
	return &rateService{repo: repo, provider: provider}
}

// GetRate resolves the effective rate for a pair.
func (s *rateService) GetRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	return s.provider.GetExchangeRate(ctx, fromCurrency, toCurrency)
}

// SetRate stores a rate for a pair. Rates must be positive and the
// same-currency rate is fixed at one.
func (s *rateService) SetRate(ctx context.Context, fromCurrency, toCurrency string, rate decimal.Decimal, userID string) error {
	if !rate.IsPositive() {
		return fmt.Errorf("%w: exchange rate %s must be positive", apperrors.ErrValidation, rate.String())
	}
	if fromCurrency == toCurrency {
		return fmt.Errorf("%w: same-currency rate is fixed at 1", apperrors.ErrValidation)
	}
	if err := s.repo.SaveExchangeRate(ctx, fromCurrency, toCurrency, rate, userID); err != nil {
		s.LogError(ctx, err, "failed to store exchange rate", "from", fromCurrency, "to", toCurrency)
		return err
	}
	s.LogInfo(ctx, "exchange rate stored", "from", fromCurrency, "to", toCurrency, "rate", rate.String())
	return nil
}

// FallbackRateProvider wraps another provider and substitutes a configured
// fallback rate when the inner provider has no rate for a pair. Lookups that
// fall back are logged so missing pairs are visible in operations.
type FallbackRateProvider struct {
	BaseService
	inner        portssvc.RateProvider
	fallbackRate decimal.Decimal
}

var _ portssvc.RateProvider = (*FallbackRateProvider)(nil)

// NewFallbackRateProvider wraps inner with a fallback rate for unknown pairs.
func NewFallbackRateProvider(inner portssvc.RateProvider, fallbackRate decimal.Decimal) *FallbackRateProvider {
	return &FallbackRateProvider{inner: inner, fallbackRate: fallbackRate}
}

// GetExchangeRate resolves the rate via the inner provider. Same-currency pairs
// never consult the inner provider and never fall back.
func (p *FallbackRateProvider) GetExchangeRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	if fromCurrency == toCurrency {
		return decimal.NewFromInt(1), nil
	}
	rate, err := p.inner.GetExchangeRate(ctx, fromCurrency, toCurrency)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			p.LogWarn(ctx, "no exchange rate for pair, using fallback rate",
				"from", fromCurrency, "to", toCurrency, "fallbackRate", p.fallbackRate.String())
			return p.fallbackRate, nil
		}
		return decimal.Zero, err
	}
	return rate, nil
}
