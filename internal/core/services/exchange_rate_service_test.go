package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mptrsn/corpledger/internal/apperrors"
	"github.com/mptrsn/corpledger/internal/core/services"
)

// MockExchangeRateRepository is a mock type for the ExchangeRateRepositoryFacade interface
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCurrency, toCurrency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, fromCurrency, toCurrency string, rate decimal.Decimal, userID string) error {
	args := m.Called(ctx, fromCurrency, toCurrency, rate, userID)
	return args.Error(0)
}

func TestStaticRateProvider_KnownPair(t *testing.T) {
	p := services.NewStaticRateProvider()
	p.SetRate("EUR", "USD", decimal.RequireFromString("1.08"))

	rate, err := p.GetExchangeRate(context.Background(), "EUR", "USD")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("1.08")))
}

func TestStaticRateProvider_UnknownPair(t *testing.T) {
	p := services.NewStaticRateProvider()

	_, err := p.GetExchangeRate(context.Background(), "EUR", "USD")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestStaticRateProvider_SameCurrencyIsExactlyOne(t *testing.T) {
	p := services.NewStaticRateProvider()
	// Even a contradictory stored self-rate never wins over the identity.
	p.SetRate("USD", "USD", decimal.RequireFromString("0.99"))

	rate, err := p.GetExchangeRate(context.Background(), "USD", "USD")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestFallbackRateProvider_PassesThroughKnownRates(t *testing.T) {
	inner := services.NewStaticRateProvider()
	inner.SetRate("GBP", "USD", decimal.RequireFromString("1.25"))
	p := services.NewFallbackRateProvider(inner, decimal.NewFromInt(1))

	rate, err := p.GetExchangeRate(context.Background(), "GBP", "USD")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("1.25")))
}

func TestFallbackRateProvider_SubstitutesFallbackForUnknownPair(t *testing.T) {
	p := services.NewFallbackRateProvider(services.NewStaticRateProvider(), decimal.RequireFromString("0.5"))

	rate, err := p.GetExchangeRate(context.Background(), "GBP", "USD")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.5")))
}

func TestFallbackRateProvider_SameCurrencySkipsInnerLookup(t *testing.T) {
	repo := new(MockExchangeRateRepository)
	p := services.NewFallbackRateProvider(services.NewRepoRateProvider(repo), decimal.NewFromInt(1))

	rate, err := p.GetExchangeRate(context.Background(), "USD", "USD")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
	repo.AssertNotCalled(t, "FindExchangeRate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRepoRateProvider_DelegatesToRepository(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExchangeRateRepository)
	repo.On("FindExchangeRate", ctx, "EUR", "USD").Return(decimal.RequireFromString("1.1"), nil)
	p := services.NewRepoRateProvider(repo)

	rate, err := p.GetExchangeRate(ctx, "EUR", "USD")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("1.1")))
	repo.AssertExpectations(t)
}

func TestRepoRateProvider_NotFoundPassesThrough(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExchangeRateRepository)
	repo.On("FindExchangeRate", ctx, "EUR", "USD").Return(decimal.Zero, apperrors.ErrNotFound)
	p := services.NewRepoRateProvider(repo)

	_, err := p.GetExchangeRate(ctx, "EUR", "USD")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestRateService_SetRateStoresThroughRepository(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExchangeRateRepository)
	rate := decimal.RequireFromString("1.08")
	repo.On("SaveExchangeRate", ctx, "EUR", "USD", rate, "user-1").Return(nil)
	svc := services.NewRateService(repo, services.NewStaticRateProvider())

	require.NoError(t, svc.SetRate(ctx, "EUR", "USD", rate, "user-1"))
	repo.AssertExpectations(t)
}

func TestRateService_SetRateRejectsNonPositive(t *testing.T) {
	repo := new(MockExchangeRateRepository)
	svc := services.NewRateService(repo, services.NewStaticRateProvider())

	err := svc.SetRate(context.Background(), "EUR", "USD", decimal.Zero, "user-1")

	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	repo.AssertNotCalled(t, "SaveExchangeRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRateService_SetRateRejectsSameCurrencyPair(t *testing.T) {
	repo := new(MockExchangeRateRepository)
	svc := services.NewRateService(repo, services.NewStaticRateProvider())

	err := svc.SetRate(context.Background(), "USD", "USD", decimal.RequireFromString("1.5"), "user-1")

	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestRateService_GetRateReadsProviderChain(t *testing.T) {
	provider := services.NewStaticRateProvider()
	provider.SetRate("EUR", "USD", decimal.RequireFromString("1.1"))
	svc := services.NewRateService(new(MockExchangeRateRepository), provider)

	rate, err := svc.GetRate(context.Background(), "EUR", "USD")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("1.1")))
}
