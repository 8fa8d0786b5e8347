package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/core/domain"
)

// TransactionReader defines read operations for ledger transaction headers.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction header by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error)

	// ListTransactions retrieves transaction headers ordered by date, newest first.
	ListTransactions(ctx context.Context, limit int, offset int) ([]domain.LedgerTransaction, error)
}

// TransactionWriter defines write operations for ledger transactions.
type TransactionWriter interface {
	// SaveTransaction persists the transaction header, its journal entries, and the
	// account balance effects as one atomic unit. It assigns the human-readable
	// sequential number per fiscal year and returns the stored transaction.
	SaveTransaction(ctx context.Context, txn domain.LedgerTransaction, entries []domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.LedgerTransaction, error)

	// UpdateTransactionStatus updates the status of a transaction header.
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, userID string, now time.Time) error
}

// TransactionRepositoryFacade combines reader and writer for ledger transactions.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends the facade with database transaction capabilities.
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
