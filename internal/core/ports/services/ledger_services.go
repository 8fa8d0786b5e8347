package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/apperrors"
	"github.com/mptrsn/corpledger/internal/core/domain"
	"github.com/mptrsn/corpledger/internal/dto"
)

// AccountSvc exposes chart-of-accounts operations to the transport layer.
type AccountSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}

// LedgerSvc exposes the journal entry manager's operations to the transport layer.
type LedgerSvc interface {
	CreateAndPersistTransaction(ctx context.Context, data domain.TransactionData, userID string) (*domain.LedgerTransaction, error)
	ValidateJournalEntries(entries []domain.JournalEntry) []apperrors.ValidationError
	GetTransaction(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error)
	ListTransactions(ctx context.Context, limit int, offset int) ([]domain.LedgerTransaction, error)
	ReverseTransaction(ctx context.Context, transactionID string, userID string) (*domain.LedgerTransaction, error)
	GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListJournalEntriesByAccount(ctx context.Context, accountID string) ([]domain.JournalEntry, error)
	PostJournalEntries(ctx context.Context, entryIDs []string, userID string) ([]domain.JournalEntry, error)
	ReconcileJournalEntry(ctx context.Context, entryID string, reconciliationID string, userID string) (*domain.JournalEntry, error)
	UnreconcileJournalEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)
	DeleteJournalEntriesByTransaction(ctx context.Context, transactionID string) (int64, error)
}

// RateSvc exposes exchange-rate management to the transport layer.
type RateSvc interface {
	GetRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error)
	SetRate(ctx context.Context, fromCurrency, toCurrency string, rate decimal.Decimal, userID string) error
}

// ReportingSvc exposes the financial statement aggregator to the transport layer.
type ReportingSvc interface {
	GenerateTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)
	GenerateBalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)
	GenerateIncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error)
}

// ServiceContainer bundles the service facades handed to the handler layer.
type ServiceContainer struct {
	Account   AccountSvc
	Ledger    LedgerSvc
	Rates     RateSvc
	Reporting ReportingSvc
}
