package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/apperrors"
	"github.com/mptrsn/corpledger/internal/core/domain"
	portsrepo "github.com/mptrsn/corpledger/internal/core/ports/repositories"
	portssvc "github.com/mptrsn/corpledger/internal/core/ports/services"
	"github.com/mptrsn/corpledger/internal/utils/money"
)

// journalService turns validated transaction data into journal entry lines and
// drives the atomic posting boundary. Account-state and currency rules are
// enforced here, on top of the structural rules the validator owns.
type journalService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	entryRepo    portsrepo.JournalEntryRepositoryFacade
	validator    *TransactionValidator
	registry     *AccountRegistry
	rates        portssvc.RateProvider
	balances     *BalanceService
	baseCurrency string
}

var _ portssvc.LedgerSvc = (*journalService)(nil)

// JournalServiceOption configures optional collaborators of the journal service.
type JournalServiceOption func(*journalService)

// WithAccountRegistry wires the account registry used for account-state checks.
// Without it, unknown accounts are skipped instead of rejected.
func WithAccountRegistry(registry *AccountRegistry) JournalServiceOption {
	return func(s *journalService) { s.registry = registry }
}

// WithRateProvider wires the exchange-rate source for foreign-currency entries.
func WithRateProvider(rates portssvc.RateProvider) JournalServiceOption {
	return func(s *journalService) { s.rates = rates }
}

// WithBalanceTracker wires the balance cache that reporting reads from. Posted
// transactions are folded into it after a successful persist.
func WithBalanceTracker(balances *BalanceService) JournalServiceOption {
	return func(s *journalService) { s.balances = balances }
}

// NewJournalService creates the journal entry manager. The base currency is the
// reporting currency every entry is converted into.
func NewJournalService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	entryRepo portsrepo.JournalEntryRepositoryFacade,
	validator *TransactionValidator,
	baseCurrency string,
	opts ...JournalServiceOption,
) portssvc.LedgerSvc {
	s := &journalService{
		txnRepo:      txnRepo,
		entryRepo:    entryRepo,
		validator:    validator,
		baseCurrency: baseCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rates == nil {
		s.rates = NewStaticRateProvider()
	}
	return s
}

// CreateAndPersistTransaction validates the proposed transaction, expands it into
// journal entries, and persists header, entries, and account balance effects as
// one atomic unit. Validation failures surface as an AccountingError carrying
// every violation; nothing is written on failure.
func (s *journalService) CreateAndPersistTransaction(ctx context.Context, data domain.TransactionData, userID string) (*domain.LedgerTransaction, error) {
	if violations := s.validator.ValidateTransactionData(data); len(violations) > 0 {
		return nil, apperrors.NewDoubleEntryError("transaction failed validation", violations)
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()

	entries, err := s.buildJournalEntries(ctx, transactionID, data, userID, now)
	if err != nil {
		return nil, err
	}
	if violations := s.ValidateJournalEntries(entries); len(violations) > 0 {
		return nil, apperrors.NewDoubleEntryError("journal entries failed validation", violations)
	}

	txn := domain.LedgerTransaction{
		TransactionID:   transactionID,
		Description:     data.Description,
		Reference:       data.Reference,
		TransactionDate: data.TransactionDate,
		CurrencyCode:    data.CurrencyCode,
		Status:          domain.TransactionStatusPosted,
		Entries:         entries,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	saved, err := s.txnRepo.SaveTransaction(ctx, txn, entries, balanceChanges(entries))
	if err != nil {
		s.LogError(ctx, err, "failed to persist transaction", "transactionID", transactionID)
		return nil, err
	}
	if s.balances != nil {
		s.balances.AddTransaction(saved)
	}
	s.LogInfo(ctx, "transaction posted",
		"transactionID", saved.TransactionID, "number", saved.Number, "entries", len(entries))
	return saved, nil
}

// GetTransaction loads a transaction header together with its journal entries.
func (s *journalService) GetTransaction(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.FindEntriesByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	txn.Entries = entries
	return txn, nil
}

// ListTransactions returns transaction headers ordered by date, newest first.
func (s *journalService) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.LedgerTransaction, error) {
	return s.txnRepo.ListTransactions(ctx, limit, offset)
}

// GetJournalEntry loads a single journal entry line.
func (s *journalService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.entryRepo.FindEntryByID(ctx, entryID)
}

// ListJournalEntriesByAccount returns every entry posted against an account.
func (s *journalService) ListJournalEntriesByAccount(ctx context.Context, accountID string) ([]domain.JournalEntry, error) {
	return s.entryRepo.FindEntriesByAccount(ctx, accountID)
}

// ReverseTransaction posts a mirror-image transaction that cancels every entry of
// the original and marks the original REVERSED. The reversal is a first-class
// transaction with its own number, so the audit trail keeps both. If the reversal
// commits but the status update on the original fails, the reversal is returned
// together with the error; callers must not post it again.
func (s *journalService) ReverseTransaction(ctx context.Context, transactionID string, userID string) (*domain.LedgerTransaction, error) {
	original, err := s.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if original.Status == domain.TransactionStatusReversed {
		return nil, fmt.Errorf("%w: transaction %s is already reversed", apperrors.ErrConflict, transactionID)
	}

	data := domain.TransactionData{
		Description:     fmt.Sprintf("Reversal of %s: %s", original.Number, original.Description),
		Reference:       original.Reference,
		TransactionDate: time.Now().UTC(),
		CurrencyCode:    original.CurrencyCode,
		Entries:         make([]domain.TransactionEntry, 0, len(original.Entries)),
	}
	for _, entry := range original.Entries {
		data.Entries = append(data.Entries, domain.TransactionEntry{
			AccountID:    entry.AccountID,
			DebitAmount:  entry.CreditAmount,
			CreditAmount: entry.DebitAmount,
			Description:  entry.Description,
			CurrencyCode: entry.CurrencyCode,
		})
	}

	reversal, err := s.CreateAndPersistTransaction(ctx, data, userID)
	if err != nil {
		return nil, err
	}
	if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, domain.TransactionStatusReversed, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "reversal posted but original status update failed",
			"transactionID", transactionID, "reversalID", reversal.TransactionID)
		return reversal, fmt.Errorf("reversal %s posted but original %s could not be marked reversed: %w", reversal.TransactionID, transactionID, err)
	}
	return reversal, nil
}

// PostJournalEntries stamps posting audit metadata on the given entries. Already
// posted or unknown ids are skipped, so the operation is idempotent.
func (s *journalService) PostJournalEntries(ctx context.Context, entryIDs []string, userID string) ([]domain.JournalEntry, error) {
	if len(entryIDs) == 0 {
		return nil, nil
	}
	updated, err := s.entryRepo.MarkEntriesPosted(ctx, entryIDs, userID, time.Now().UTC())
	if err != nil {
		s.LogError(ctx, err, "failed to mark entries posted", "count", len(entryIDs))
		return nil, err
	}
	return updated, nil
}

// ReconcileJournalEntry tags an entry with a reconciliation identifier.
func (s *journalService) ReconcileJournalEntry(ctx context.Context, entryID string, reconciliationID string, userID string) (*domain.JournalEntry, error) {
	return s.entryRepo.SetReconciliation(ctx, entryID, &reconciliationID, userID, time.Now().UTC())
}

// UnreconcileJournalEntry clears an entry's reconciliation tag.
func (s *journalService) UnreconcileJournalEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	return s.entryRepo.SetReconciliation(ctx, entryID, nil, userID, time.Now().UTC())
}

// DeleteJournalEntriesByTransaction removes every entry of a transaction and
// reports how many were deleted. Zero is a valid result, not an error.
func (s *journalService) DeleteJournalEntriesByTransaction(ctx context.Context, transactionID string) (int64, error) {
	return s.entryRepo.DeleteEntriesByTransaction(ctx, transactionID)
}

// ValidateJournalEntries applies the full pre-persistence rules to already-built
// journal entry lines: account references and state, descriptions, amount signs,
// currency support, exchange rates, and the per-currency balance. When a registry
// is wired, unknown, inactive, and transaction-disallowed accounts are violations;
// without one the account checks are skipped.
func (s *journalService) ValidateJournalEntries(entries []domain.JournalEntry) []apperrors.ValidationError {
	var violations []apperrors.ValidationError
	precision := s.validator.Precision()

	for i, entry := range entries {
		field := fmt.Sprintf("entries[%d]", i)
		if entry.AccountID == "" {
			violations = append(violations, apperrors.ValidationError{
				Field:   field,
				Message: "journal entry has no account reference",
				Code:    apperrors.CodeInvalidAccountID,
			})
		} else if s.registry != nil {
			account, err := s.registry.Get(entry.AccountID)
			switch {
			case err != nil:
				violations = append(violations, apperrors.ValidationError{
					Field:   field,
					Message: fmt.Sprintf("account %s does not exist", entry.AccountID),
					Code:    apperrors.CodeInvalidAccountID,
				})
			case !account.IsActive:
				violations = append(violations, apperrors.ValidationError{
					Field:   field,
					Message: fmt.Sprintf("account %s (%s) is inactive", account.Code, account.AccountID),
					Code:    apperrors.CodeAccountInactive,
				})
			case !account.AllowTransactions:
				violations = append(violations, apperrors.ValidationError{
					Field:   field,
					Message: fmt.Sprintf("account %s (%s) does not allow transactions", account.Code, account.AccountID),
					Code:    apperrors.CodeAccountNoTransactions,
				})
			}
		}
		if entry.Description == "" {
			violations = append(violations, apperrors.ValidationError{
				Field:   field,
				Message: "journal entry has no description",
				Code:    apperrors.CodeMissingDescription,
			})
		}
		if entry.DebitAmount.IsNegative() {
			violations = append(violations, apperrors.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("debit amount %s must not be negative", entry.DebitAmount.String()),
				Code:    apperrors.CodeNegativeDebit,
			})
		}
		if entry.CreditAmount.IsNegative() {
			violations = append(violations, apperrors.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("credit amount %s must not be negative", entry.CreditAmount.String()),
				Code:    apperrors.CodeNegativeCredit,
			})
		}
		if entry.DebitAmount.IsPositive() && entry.CreditAmount.IsPositive() {
			violations = append(violations, apperrors.ValidationError{
				Field:   field,
				Message: "entry cannot carry both a debit and a credit amount",
				Code:    apperrors.CodeBothDebitAndCredit,
			})
		}
		if entry.DebitAmount.IsZero() && entry.CreditAmount.IsZero() {
			violations = append(violations, apperrors.ValidationError{
				Field:   field,
				Message: "entry must carry a debit or a credit amount",
				Code:    apperrors.CodeZeroAmount,
			})
		}
		if entry.CurrencyCode != "" && !s.validator.SupportsCurrency(entry.CurrencyCode) {
			violations = append(violations, apperrors.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("currency %s is not supported", entry.CurrencyCode),
				Code:    apperrors.CodeUnsupportedCurrency,
			})
		}
		if !entry.ExchangeRate.IsPositive() {
			violations = append(violations, apperrors.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("exchange rate %s must be positive", entry.ExchangeRate.String()),
				Code:    apperrors.CodeInvalidExchangeRate,
			})
		}
	}

	type totals struct {
		debits  decimal.Decimal
		credits decimal.Decimal
	}
	byCurrency := make(map[string]*totals)
	var order []string
	for _, entry := range entries {
		t, ok := byCurrency[entry.CurrencyCode]
		if !ok {
			t = &totals{debits: decimal.Zero, credits: decimal.Zero}
			byCurrency[entry.CurrencyCode] = t
			order = append(order, entry.CurrencyCode)
		}
		t.debits = t.debits.Add(money.Round(entry.DebitAmount, precision))
		t.credits = t.credits.Add(money.Round(entry.CreditAmount, precision))
	}
	for _, currency := range order {
		t := byCurrency[currency]
		if !t.debits.Equal(t.credits) {
			violations = append(violations, apperrors.ValidationError{
				Field:   "entries",
				Message: fmt.Sprintf("journal entries do not balance for %s: debits total %s, credits total %s", currency, t.debits.String(), t.credits.String()),
				Code:    apperrors.CodeUnbalancedTransaction,
			})
		}
	}
	return violations
}

// buildJournalEntries expands transaction data into journal entry lines: checks
// account state, resolves exchange rates into the base currency, and stamps
// identity and audit metadata. The same-currency rate is exactly one.
func (s *journalService) buildJournalEntries(ctx context.Context, transactionID string, data domain.TransactionData, userID string, now time.Time) ([]domain.JournalEntry, error) {
	precision := s.validator.Precision()
	entries := make([]domain.JournalEntry, 0, len(data.Entries))

	for i, src := range data.Entries {
		currency := src.CurrencyCode
		if currency == "" {
			currency = data.CurrencyCode
		}

		if s.registry != nil {
			account, err := s.registry.Get(src.AccountID)
			if err != nil {
				return nil, apperrors.NewAccountStateError("transaction references unknown account", []apperrors.ValidationError{{
					Field:   fmt.Sprintf("entries[%d]", i),
					Message: fmt.Sprintf("account %s does not exist", src.AccountID),
					Code:    apperrors.CodeInvalidAccountID,
				}})
			}
			if !account.IsActive {
				return nil, apperrors.NewAccountStateError("transaction references inactive account", []apperrors.ValidationError{{
					Field:   fmt.Sprintf("entries[%d]", i),
					Message: fmt.Sprintf("account %s (%s) is inactive", account.Code, account.AccountID),
					Code:    apperrors.CodeAccountInactive,
				}})
			}
			if !account.AllowTransactions {
				return nil, apperrors.NewAccountStateError("account does not accept direct postings", []apperrors.ValidationError{{
					Field:   fmt.Sprintf("entries[%d]", i),
					Message: fmt.Sprintf("account %s (%s) does not allow transactions", account.Code, account.AccountID),
					Code:    apperrors.CodeAccountNoTransactions,
				}})
			}
		}

		rate, err := s.rates.GetExchangeRate(ctx, currency, s.baseCurrency)
		if err != nil {
			return nil, apperrors.NewCurrencyError("cannot resolve exchange rate", []apperrors.ValidationError{{
				Field:   fmt.Sprintf("entries[%d]", i),
				Message: fmt.Sprintf("no exchange rate from %s to %s", currency, s.baseCurrency),
				Code:    apperrors.CodeInvalidExchangeRate,
			}})
		}

		entries = append(entries, domain.JournalEntry{
			EntryID:          uuid.NewString(),
			TransactionID:    transactionID,
			AccountID:        src.AccountID,
			DebitAmount:      money.Round(src.DebitAmount, precision),
			CreditAmount:     money.Round(src.CreditAmount, precision),
			Description:      entryDescription(src, data),
			CurrencyCode:     currency,
			ExchangeRate:     rate,
			BaseCurrencyCode: s.baseCurrency,
			BaseDebitAmount:  money.Round(src.DebitAmount.Mul(rate), precision),
			BaseCreditAmount: money.Round(src.CreditAmount.Mul(rate), precision),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}
	return entries, nil
}

// balanceChanges folds entries into the net base-currency delta per account,
// debit-positive. This map is applied atomically with the transaction insert.
func balanceChanges(entries []domain.JournalEntry) map[string]decimal.Decimal {
	changes := make(map[string]decimal.Decimal)
	for _, entry := range entries {
		delta := entry.BaseDebitAmount.Sub(entry.BaseCreditAmount)
		changes[entry.AccountID] = changes[entry.AccountID].Add(delta)
	}
	return changes
}

func entryDescription(entry domain.TransactionEntry, data domain.TransactionData) string {
	if entry.Description != "" {
		return entry.Description
	}
	return data.Description
}
