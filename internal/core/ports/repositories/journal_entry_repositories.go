package repositories

import (
	"context"
	"time"

	"github.com/mptrsn/corpledger/internal/core/domain"
)

// JournalEntryReader defines read operations for journal entry lines.
type JournalEntryReader interface {
	// FindEntryByID retrieves a single journal entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntriesByTransaction retrieves all journal entries belonging to a transaction.
	FindEntriesByTransaction(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)

	// FindEntriesByAccount retrieves all journal entries posted against an account.
	FindEntriesByAccount(ctx context.Context, accountID string) ([]domain.JournalEntry, error)
}

// JournalEntryWriter defines write operations for journal entry lines.
type JournalEntryWriter interface {
	// SaveEntries persists a batch of journal entries.
	SaveEntries(ctx context.Context, entries []domain.JournalEntry) error

	// MarkEntriesPosted stamps posting audit metadata on the given entries.
	// Unknown ids are skipped, not errors; the updated entries are returned.
	MarkEntriesPosted(ctx context.Context, entryIDs []string, userID string, now time.Time) ([]domain.JournalEntry, error)

	// SetReconciliation toggles the reconciliation tag of one entry. A nil
	// reconciliationID clears the tag. Unknown ids map to apperrors.ErrNotFound.
	SetReconciliation(ctx context.Context, entryID string, reconciliationID *string, userID string, now time.Time) (*domain.JournalEntry, error)

	// DeleteEntriesByTransaction removes every entry of a transaction and reports the count.
	DeleteEntriesByTransaction(ctx context.Context, transactionID string) (int64, error)
}

// JournalEntryRepositoryFacade combines all journal-entry repository interfaces.
type JournalEntryRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}
