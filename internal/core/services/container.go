package services

import (
	"github.com/shopspring/decimal"

	portsrepo "github.com/mptrsn/corpledger/internal/core/ports/repositories"
	portssvc "github.com/mptrsn/corpledger/internal/core/ports/services"
)

// ContainerConfig carries the knobs the service layer needs from configuration.
type ContainerConfig struct {
	BaseCurrency        string
	SupportedCurrencies []string
	Precision           int32
	DefaultExchangeRate decimal.Decimal
}

// ContainerRepos bundles the persistence adapters the services depend on.
type ContainerRepos struct {
	Account      portsrepo.AccountRepositoryFacade
	Transaction  portsrepo.TransactionRepositoryFacade
	JournalEntry portsrepo.JournalEntryRepositoryFacade
	ExchangeRate portsrepo.ExchangeRateRepositoryFacade
}

// NewServiceContainer wires the full service graph: registry, validator, rate
// provider with fallback, and the three service facades handed to the handlers.
func NewServiceContainer(repos ContainerRepos, cfg ContainerConfig) (*portssvc.ServiceContainer, *AccountRegistry, *BalanceService) {
	registry := NewAccountRegistry()
	validator := NewTransactionValidator(cfg.SupportedCurrencies, cfg.Precision)
	balances := NewBalanceService(WithBalanceRegistry(registry))

	rates := NewFallbackRateProvider(NewRepoRateProvider(repos.ExchangeRate), cfg.DefaultExchangeRate)

	ledger := NewJournalService(
		repos.Transaction,
		repos.JournalEntry,
		validator,
		cfg.BaseCurrency,
		WithAccountRegistry(registry),
		WithRateProvider(rates),
		WithBalanceTracker(balances),
	)

	container := &portssvc.ServiceContainer{
		Account:   NewAccountService(repos.Account, registry),
		Ledger:    ledger,
		Rates:     NewRateService(repos.ExchangeRate, rates),
		Reporting: NewReportingService(registry, balances),
	}
	return container, registry, balances
}
