package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mptrsn/corpledger/internal/apperrors"
	"github.com/mptrsn/corpledger/internal/core/domain"
	portsrepo "github.com/mptrsn/corpledger/internal/core/ports/repositories"
)

// AccountRegistry is a pure in-memory index of the chart of accounts.
// It validates nothing beyond uniqueness of the account id; loading from the
// persistence layer belongs to StoreBackedRegistry, not here. The RWMutex is the
// single concurrency seam for the index (readers never block each other).
type AccountRegistry struct {
	mu   sync.RWMutex
	byID map[string]domain.Account
}

// NewAccountRegistry creates an empty account registry.
func NewAccountRegistry() *AccountRegistry {
	return &AccountRegistry{byID: make(map[string]domain.Account)}
}

// Register adds an account to the index. The stored normal balance is always
// re-derived from the account type; there is no id-prefix type guessing anywhere.
func (r *AccountRegistry) Register(account domain.Account) error {
	normal, err := domain.NormalBalanceFor(account.AccountType)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	account.NormalBalance = normal

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	r.byID[account.AccountID] = account
	return nil
}

// Replace upserts an account, keeping the normal balance derivation.
func (r *AccountRegistry) Replace(account domain.Account) error {
	normal, err := domain.NormalBalanceFor(account.AccountType)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	account.NormalBalance = normal

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[account.AccountID] = account
	return nil
}

// Get returns the account with the given id or apperrors.ErrNotFound.
func (r *AccountRegistry) Get(accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &account, nil
}

// GetByCode returns the account with the given code or apperrors.ErrNotFound.
func (r *AccountRegistry) GetByCode(code string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.byID {
		if account.Code == code {
			a := account
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
}

// GetByType returns all accounts of one type, ordered by code.
func (r *AccountRegistry) GetByType(accountType domain.AccountType) []domain.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts := make([]domain.Account, 0)
	for _, account := range r.byID {
		if account.AccountType == accountType {
			accounts = append(accounts, account)
		}
	}
	sortAccounts(accounts)
	return accounts
}

// Has reports whether an account id is registered.
func (r *AccountRegistry) Has(accountID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[accountID]
	return ok
}

// Remove deletes an account from the index and reports whether it was present.
func (r *AccountRegistry) Remove(accountID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[accountID]
	delete(r.byID, accountID)
	return ok
}

// List returns all registered accounts ordered by code so that report iteration
// is deterministic.
func (r *AccountRegistry) List() []domain.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts := make([]domain.Account, 0, len(r.byID))
	for _, account := range r.byID {
		accounts = append(accounts, account)
	}
	sortAccounts(accounts)
	return accounts
}

// Len returns the number of registered accounts.
func (r *AccountRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func sortAccounts(accounts []domain.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Code != accounts[j].Code {
			return accounts[i].Code < accounts[j].Code
		}
		return accounts[i].AccountID < accounts[j].AccountID
	})
}

// StoreBackedRegistry decorates AccountRegistry with loading from the account repository.
type StoreBackedRegistry struct {
	*AccountRegistry
	repo portsrepo.AccountReader
}

// NewStoreBackedRegistry creates a registry that can hydrate itself from the store.
func NewStoreBackedRegistry(repo portsrepo.AccountReader) *StoreBackedRegistry {
	return &StoreBackedRegistry{AccountRegistry: NewAccountRegistry(), repo: repo}
}

// NewStoreBackedRegistryFrom wraps an existing registry so it can be hydrated
// from the store while other services keep their reference to it.
func NewStoreBackedRegistryFrom(registry *AccountRegistry, repo portsrepo.AccountReader) *StoreBackedRegistry {
	return &StoreBackedRegistry{AccountRegistry: registry, repo: repo}
}

// LoadFromStore replaces the in-memory index with the persisted chart of accounts.
func (r *StoreBackedRegistry) LoadFromStore(ctx context.Context) error {
	accounts, err := r.repo.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts into registry: %w", err)
	}
	for _, account := range accounts {
		if err := r.Replace(account); err != nil {
			return fmt.Errorf("failed to register account %s: %w", account.AccountID, err)
		}
	}
	return nil
}
