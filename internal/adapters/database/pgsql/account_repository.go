package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/apperrors"
	"github.com/mptrsn/corpledger/internal/core/domain"
	portsrepo "github.com/mptrsn/corpledger/internal/core/ports/repositories"
)

const accountColumns = `account_id, entity_id, code, name, account_type, normal_balance, parent_account_id, description, is_active, allow_transactions, balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// NewPgxAccountRepository creates a new repository for chart-of-accounts data.
func NewPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{pool: pool}
}

// SaveAccount persists a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.EntityID,
		account.Code,
		account.Name,
		account.AccountType,
		account.NormalBalance,
		account.ParentAccountID,
		account.Description,
		account.IsActive,
		account.AllowTransactions,
		account.Balance,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
		return fmt.Errorf("failed to insert account %s: %w", account.AccountID, err)
	}
	return nil
}

// UpdateAccount updates mutable account fields. Code and type are immutable.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, description = $3, is_active = $4, allow_transactions = $5, last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.Description,
		account.IsActive,
		account.AllowTransactions,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount marks an account inactive, keeping its posting history.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountByID retrieves a specific account by its unique identifier.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	return r.scanOne(r.pool.QueryRow(ctx, query, accountID), accountID)
}

// FindAccountByCode retrieves an account by its human-facing code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	return r.scanOne(r.pool.QueryRow(ctx, query, code), code)
}

// FindAccountsByIDs retrieves multiple accounts keyed by id. Missing ids are
// simply absent from the map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by ids: %w", err)
	}
	defer rows.Close()
	return r.scanIntoMap(rows)
}

// ListAccounts retrieves all accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListAccountsByType retrieves all accounts of one type ordered by code.
func (r *PgxAccountRepository) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_type = $1 ORDER BY code;`
	rows, err := r.pool.Query(ctx, query, accountType)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts of type %s: %w", accountType, err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// FindAccountsByIDsForUpdate selects accounts and locks them inside the posting
// transaction. Ids are sorted before locking to keep lock order stable across
// concurrent postings.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	ids := make([]string, len(accountIDs))
	copy(ids, accountIDs)
	sort.Strings(ids)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts for update: %w", err)
	}
	defer rows.Close()
	return r.scanIntoMap(rows)
}

// UpdateAccountBalancesInTx applies balance deltas within the posting transaction.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}
	ids := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	batch := &pgx.Batch{}
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	for _, id := range ids {
		batch.Queue(query, id, balanceChanges[id], now, userID)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to apply balance changes: %w", err)
	}
	return nil
}

func (r *PgxAccountRepository) scanOne(row pgx.Row, ref string) (*domain.Account, error) {
	var account domain.Account
	var parentID *string
	err := row.Scan(
		&account.AccountID,
		&account.EntityID,
		&account.Code,
		&account.Name,
		&account.AccountType,
		&account.NormalBalance,
		&parentID,
		&account.Description,
		&account.IsActive,
		&account.AllowTransactions,
		&account.Balance,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", ref, err)
	}
	if parentID != nil {
		account.ParentAccountID = *parentID
	}
	return &account, nil
}

func (r *PgxAccountRepository) scanMany(rows pgx.Rows) ([]domain.Account, error) {
	accounts := []domain.Account{}
	for rows.Next() {
		var account domain.Account
		var parentID *string
		if err := rows.Scan(
			&account.AccountID,
			&account.EntityID,
			&account.Code,
			&account.Name,
			&account.AccountType,
			&account.NormalBalance,
			&parentID,
			&account.Description,
			&account.IsActive,
			&account.AllowTransactions,
			&account.Balance,
			&account.CreatedAt,
			&account.CreatedBy,
			&account.LastUpdatedAt,
			&account.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		if parentID != nil {
			account.ParentAccountID = *parentID
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) scanIntoMap(rows pgx.Rows) (map[string]domain.Account, error) {
	accounts, err := r.scanMany(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Account, len(accounts))
	for _, account := range accounts {
		byID[account.AccountID] = account
	}
	return byID, nil
}
