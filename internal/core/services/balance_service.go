package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/core/domain"
	portsrepo "github.com/mptrsn/corpledger/internal/core/ports/repositories"
)

// BalanceStore is the seam between the balance manager and its cache. The
// in-memory store is the default; a persistent cache can slot in behind the
// same four methods.
type BalanceStore interface {
	// Get returns the cached balance for an account, reporting whether one exists.
	Get(accountID string) (domain.AccountBalance, bool)

	// Put stores or replaces the cached balance for an account.
	Put(balance domain.AccountBalance)

	// Accounts returns the ids of every account with a cached balance, sorted.
	Accounts() []string

	// Reset discards all cached balances.
	Reset()
}

// memoryBalanceStore is the default map-backed BalanceStore.
type memoryBalanceStore struct {
	mu       sync.RWMutex
	balances map[string]domain.AccountBalance
}

var _ BalanceStore = (*memoryBalanceStore)(nil)

// NewMemoryBalanceStore creates an empty in-memory balance store.
func NewMemoryBalanceStore() BalanceStore {
	return &memoryBalanceStore{balances: make(map[string]domain.AccountBalance)}
}

func (s *memoryBalanceStore) Get(accountID string) (domain.AccountBalance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	balance, ok := s.balances[accountID]
	return balance, ok
}

func (s *memoryBalanceStore) Put(balance domain.AccountBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[balance.AccountID] = balance
}

func (s *memoryBalanceStore) Accounts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.balances))
	for id := range s.balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *memoryBalanceStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = make(map[string]domain.AccountBalance)
}

// posting is one base-currency journal line in the replay log, kept so balances
// can be recomputed as of any date.
type posting struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Date      time.Time
}

// BalanceService maintains running balances per account. The cached balance is
// the raw debit-positive figure (base debits minus base credits); presentation
// per the account's normal balance side happens at read time.
type BalanceService struct {
	mu       sync.RWMutex
	store    BalanceStore
	registry *AccountRegistry
	log      []posting
}

// BalanceServiceOption configures optional collaborators of the balance service.
type BalanceServiceOption func(*BalanceService)

// WithBalanceStore swaps the default in-memory cache for another BalanceStore.
func WithBalanceStore(store BalanceStore) BalanceServiceOption {
	return func(s *BalanceService) { s.store = store }
}

// WithBalanceRegistry wires the account registry used to fill currency and
// normal-balance metadata on cached balances.
func WithBalanceRegistry(registry *AccountRegistry) BalanceServiceOption {
	return func(s *BalanceService) { s.registry = registry }
}

// NewBalanceService creates the account balance manager.
func NewBalanceService(opts ...BalanceServiceOption) *BalanceService {
	s := &BalanceService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = NewMemoryBalanceStore()
	}
	return s
}

// AddTransaction folds a posted transaction's base-currency entries into the
// cached balances and appends them to the replay log. Applying the same
// balanced transaction leaves the sum of all balances at zero.
func (s *BalanceService) AddTransaction(txn *domain.LedgerTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range txn.Entries {
		s.log = append(s.log, posting{
			AccountID: entry.AccountID,
			Debit:     entry.BaseDebitAmount,
			Credit:    entry.BaseCreditAmount,
			Date:      txn.TransactionDate,
		})

		current, ok := s.store.Get(entry.AccountID)
		if !ok {
			current = domain.AccountBalance{
				AccountID: entry.AccountID,
				Balance:   decimal.Zero,
			}
			if s.registry != nil {
				if account, err := s.registry.Get(entry.AccountID); err == nil {
					current.NormalBalance = account.NormalBalance
					current.CurrencyCode = entry.BaseCurrencyCode
				}
			}
		}
		current.Balance = current.Balance.Add(entry.BaseDebitAmount).Sub(entry.BaseCreditAmount)
		current.LastUpdated = time.Now().UTC()
		s.store.Put(current)
	}
}

// WarmFromStore replays persisted transactions into the cache so reports built
// after a restart include postings made before it.
func (s *BalanceService) WarmFromStore(ctx context.Context, txns portsrepo.TransactionReader, entries portsrepo.JournalEntryReader) error {
	const pageSize = 200
	for offset := 0; ; offset += pageSize {
		page, err := txns.ListTransactions(ctx, pageSize, offset)
		if err != nil {
			return fmt.Errorf("failed to load transactions for balance warm-up: %w", err)
		}
		for i := range page {
			lines, err := entries.FindEntriesByTransaction(ctx, page[i].TransactionID)
			if err != nil {
				return fmt.Errorf("failed to load entries for transaction %s: %w", page[i].TransactionID, err)
			}
			page[i].Entries = lines
			s.AddTransaction(&page[i])
		}
		if len(page) < pageSize {
			return nil
		}
	}
}

// Balance returns the cached raw debit-positive balance in constant time.
// Unknown accounts report zero.
func (s *BalanceService) Balance(accountID string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if balance, ok := s.store.Get(accountID); ok {
		return balance.Balance
	}
	return decimal.Zero
}

// RawBalanceAsOf replays the log up to and including asOf and returns the raw
// debit-positive balance at that date. A nil asOf means the current balance.
func (s *BalanceService) RawBalanceAsOf(accountID string, asOf *time.Time) decimal.Decimal {
	if asOf == nil {
		return s.Balance(accountID)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, p := range s.log {
		if p.AccountID != accountID || p.Date.After(*asOf) {
			continue
		}
		total = total.Add(p.Debit).Sub(p.Credit)
	}
	return total
}

// CalculateAccountBalance returns the balance presented per the account type's
// normal side: debits minus credits for asset and expense accounts, credits
// minus debits for liability, equity, and revenue accounts.
func (s *BalanceService) CalculateAccountBalance(accountID string, accountType domain.AccountType, asOf *time.Time) (decimal.Decimal, error) {
	normal, err := domain.NormalBalanceFor(accountType)
	if err != nil {
		return decimal.Zero, err
	}
	raw := s.RawBalanceAsOf(accountID, asOf)
	if normal == domain.NormalCredit {
		return raw.Neg(), nil
	}
	return raw, nil
}

// AccountActivity sums the debit and credit base amounts posted against an
// account inside the window. Nil bounds leave that side of the window open.
func (s *BalanceService) AccountActivity(accountID string, from, to *time.Time) (debits, credits decimal.Decimal) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	debits, credits = decimal.Zero, decimal.Zero
	for _, p := range s.log {
		if p.AccountID != accountID {
			continue
		}
		if from != nil && p.Date.Before(*from) {
			continue
		}
		if to != nil && p.Date.After(*to) {
			continue
		}
		debits = debits.Add(p.Debit)
		credits = credits.Add(p.Credit)
	}
	return debits, credits
}

// TrackedAccounts returns the ids of every account that has received a posting.
func (s *BalanceService) TrackedAccounts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Accounts()
}

// Reset clears cached balances and the replay log.
func (s *BalanceService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Reset()
	s.log = nil
}
