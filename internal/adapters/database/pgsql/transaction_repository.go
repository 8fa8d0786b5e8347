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
	"github.com/mptrsn/corpledger/internal/core/domain"
	portsrepo "github.com/mptrsn/corpledger/internal/core/ports/repositories"
)

const transactionColumns = `transaction_id, transaction_number, description, reference, transaction_date, currency_code, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	pool     *pgxpool.Pool
	accounts *PgxAccountRepository
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

// NewPgxTransactionRepository creates a new repository for ledger transactions.
// The account repository is used to lock and update account balances inside the
// posting transaction.
func NewPgxTransactionRepository(pool *pgxpool.Pool, accounts *PgxAccountRepository) *PgxTransactionRepository {
	return &PgxTransactionRepository{pool: pool, accounts: accounts}
}

// Begin starts a database transaction.
func (r *PgxTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// SaveTransaction persists the transaction header, its journal entries, and the
// account balance effects as one atomic unit. The sequential number is allocated
// from a per-fiscal-year counter inside the same database transaction, so a
// rollback never leaves a gap ahead of a committed transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.LedgerTransaction, entries []domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.LedgerTransaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	accountIDs := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		accountIDs = append(accountIDs, id)
	}
	if _, err := r.accounts.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return nil, err
	}

	number, err := r.nextTransactionNumber(ctx, tx, txn.TransactionDate)
	if err != nil {
		return nil, err
	}
	txn.Number = number

	headerQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, headerQuery,
		txn.TransactionID,
		txn.Number,
		txn.Description,
		txn.Reference,
		txn.TransactionDate,
		txn.CurrencyCode,
		txn.Status,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}

	batch := &pgx.Batch{}
	queueEntryInserts(batch, entries)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to insert journal entries for transaction %s: %w", txn.TransactionID, err)
	}

	if err := r.accounts.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, txn.CreatedBy, txn.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction %s: %w", txn.TransactionID, err)
	}

	txn.Entries = entries
	return &txn, nil
}

// UpdateTransactionStatus updates the status of a transaction header.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, transactionID, status, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindTransactionByID retrieves a transaction header.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves transaction headers, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.LedgerTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY transaction_date DESC, transaction_number DESC LIMIT $1 OFFSET $2;`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.LedgerTransaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}

// nextTransactionNumber allocates the next sequential number for the fiscal year
// of the transaction date, formatted "YYYY-NNNNNN". The upsert increments under
// row lock, so concurrent postings never share a number.
func (r *PgxTransactionRepository) nextTransactionNumber(ctx context.Context, tx pgx.Tx, transactionDate time.Time) (string, error) {
	fiscalYear := transactionDate.UTC().Year()
	query := `
		INSERT INTO transaction_sequences (fiscal_year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (fiscal_year) DO UPDATE SET last_value = transaction_sequences.last_value + 1
		RETURNING last_value;
	`
	var lastValue int64
	if err := tx.QueryRow(ctx, query, fiscalYear).Scan(&lastValue); err != nil {
		return "", fmt.Errorf("failed to allocate transaction number for fiscal year %d: %w", fiscalYear, err)
	}
	return fmt.Sprintf("%d-%06d", fiscalYear, lastValue), nil
}

func scanTransaction(row pgx.Row) (*domain.LedgerTransaction, error) {
	var txn domain.LedgerTransaction
	err := row.Scan(
		&txn.TransactionID,
		&txn.Number,
		&txn.Description,
		&txn.Reference,
		&txn.TransactionDate,
		&txn.CurrencyCode,
		&txn.Status,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
