package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mptrsn/corpledger/internal/apperrors"
	"github.com/mptrsn/corpledger/internal/core/domain"
	portsrepo "github.com/mptrsn/corpledger/internal/core/ports/repositories"
)

const journalEntryColumns = `entry_id, transaction_id, account_id, debit_amount, credit_amount, description, currency_code, exchange_rate, base_currency_code, base_debit_amount, base_credit_amount, is_reconciled, reconciliation_id, posted_at, posted_by, created_at, created_by, last_updated_at, last_updated_by`

const journalEntryInsertQuery = `
	INSERT INTO journal_entries (` + journalEntryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NULLIF($15, ''), $16, $17, $18, $19);
`

type PgxJournalEntryRepository struct {
	pool *pgxpool.Pool
}

var _ portsrepo.JournalEntryRepositoryFacade = (*PgxJournalEntryRepository)(nil)

// NewPgxJournalEntryRepository creates a new repository for journal entry lines.
func NewPgxJournalEntryRepository(pool *pgxpool.Pool) *PgxJournalEntryRepository {
	return &PgxJournalEntryRepository{pool: pool}
}

// SaveEntries persists a batch of journal entries outside a posting transaction.
// The posting path inserts entries via queueEntryInserts inside SaveTransaction.
func (r *PgxJournalEntryRepository) SaveEntries(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	queueEntryInserts(batch, entries)
	br := r.pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert journal entries: %w", err)
	}
	return nil
}

// queueEntryInserts queues one insert per entry onto the batch. Shared with the
// transaction repository so the posting path uses the same statement.
func queueEntryInserts(batch *pgx.Batch, entries []domain.JournalEntry) {
	for _, entry := range entries {
		batch.Queue(journalEntryInsertQuery,
			entry.EntryID,
			entry.TransactionID,
			entry.AccountID,
			entry.DebitAmount,
			entry.CreditAmount,
			entry.Description,
			entry.CurrencyCode,
			entry.ExchangeRate,
			entry.BaseCurrencyCode,
			entry.BaseDebitAmount,
			entry.BaseCreditAmount,
			entry.IsReconciled,
			entry.ReconciliationID,
			entry.PostedAt,
			entry.PostedBy,
			entry.CreatedAt,
			entry.CreatedBy,
			entry.LastUpdatedAt,
			entry.LastUpdatedBy,
		)
	}
}

// FindEntryByID retrieves a single journal entry.
func (r *PgxJournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanJournalEntry(r.pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// FindEntriesByTransaction retrieves all entries of a transaction in insertion order.
func (r *PgxJournalEntryRepository) FindEntriesByTransaction(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE transaction_id = $1 ORDER BY created_at, entry_id;`
	return r.queryEntries(ctx, query, transactionID)
}

// FindEntriesByAccount retrieves all entries posted against an account.
func (r *PgxJournalEntryRepository) FindEntriesByAccount(ctx context.Context, accountID string) ([]domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE account_id = $1 ORDER BY created_at, entry_id;`
	return r.queryEntries(ctx, query, accountID)
}

// MarkEntriesPosted stamps posting metadata on the given entries. Entries that do
// not exist or are already posted are left untouched; the updated rows come back.
func (r *PgxJournalEntryRepository) MarkEntriesPosted(ctx context.Context, entryIDs []string, userID string, now time.Time) ([]domain.JournalEntry, error) {
	if len(entryIDs) == 0 {
		return []domain.JournalEntry{}, nil
	}
	query := `
		UPDATE journal_entries
		SET posted_at = $2, posted_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = ANY($1) AND posted_at IS NULL
		RETURNING ` + journalEntryColumns + `;
	`
	rows, err := r.pool.Query(ctx, query, entryIDs, now, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark journal entries posted: %w", err)
	}
	defer rows.Close()
	return scanJournalEntries(rows)
}

// SetReconciliation toggles the reconciliation tag of one entry. A nil
// reconciliationID clears the tag.
func (r *PgxJournalEntryRepository) SetReconciliation(ctx context.Context, entryID string, reconciliationID *string, userID string, now time.Time) (*domain.JournalEntry, error) {
	query := `
		UPDATE journal_entries
		SET is_reconciled = $2, reconciliation_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1
		RETURNING ` + journalEntryColumns + `;
	`
	entry, err := scanJournalEntry(r.pool.QueryRow(ctx, query, entryID, reconciliationID != nil, reconciliationID, now, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update reconciliation for entry %s: %w", entryID, err)
	}
	return entry, nil
}

// DeleteEntriesByTransaction removes every entry of a transaction and reports the count.
func (r *PgxJournalEntryRepository) DeleteEntriesByTransaction(ctx context.Context, transactionID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM journal_entries WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete journal entries for transaction %s: %w", transactionID, err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgxJournalEntryRepository) queryEntries(ctx context.Context, query string, arg any) ([]domain.JournalEntry, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()
	return scanJournalEntries(rows)
}

func scanJournalEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	var postedBy *string
	err := row.Scan(
		&entry.EntryID,
		&entry.TransactionID,
		&entry.AccountID,
		&entry.DebitAmount,
		&entry.CreditAmount,
		&entry.Description,
		&entry.CurrencyCode,
		&entry.ExchangeRate,
		&entry.BaseCurrencyCode,
		&entry.BaseDebitAmount,
		&entry.BaseCreditAmount,
		&entry.IsReconciled,
		&entry.ReconciliationID,
		&entry.PostedAt,
		&postedBy,
		&entry.CreatedAt,
		&entry.CreatedBy,
		&entry.LastUpdatedAt,
		&entry.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if postedBy != nil {
		entry.PostedBy = *postedBy
	}
	return &entry, nil
}

func scanJournalEntries(rows pgx.Rows) ([]domain.JournalEntry, error) {
	entries := []domain.JournalEntry{}
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return entries, nil
}
