package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance indicates whether an account type's natural increase is a debit or a credit.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// NormalBalanceFor derives the normal balance from the account type.
// DEBIT for ASSET/EXPENSE, CREDIT for LIABILITY/EQUITY/REVENUE. The mapping lives
// only here; callers must never store an ad hoc value that bypasses it.
func NormalBalanceFor(accountType AccountType) (NormalBalance, error) {
	switch accountType {
	case Asset, Expense:
		return NormalDebit, nil
	case Liability, Equity, Revenue:
		return NormalCredit, nil
	default:
		return "", fmt.Errorf("unknown account type %q", accountType)
	}
}

// Account represents one account in the chart of accounts.
// This is the primary representation used by services.
type Account struct {
	AccountID         string          `json:"accountID"`         // Primary Key (UUID)
	EntityID          string          `json:"entityID"`          // Tenant scope
	Code              string          `json:"code"`              // Unique human-facing code, e.g. "1001"
	Name              string          `json:"name"`              // User-defined name
	AccountType       AccountType     `json:"accountType"`       // ASSET, LIABILITY, etc.
	NormalBalance     NormalBalance   `json:"normalBalance"`     // Always NormalBalanceFor(AccountType)
	ParentAccountID   string          `json:"parentAccountID"`   // Nullable self-reference, forms a tree
	Description       string          `json:"description"`       // Nullable user description
	IsActive          bool            `json:"isActive"`          // Soft delete flag; retired accounts keep history
	AllowTransactions bool            `json:"allowTransactions"` // Summary accounts may forbid direct postings
	Balance           decimal.Decimal `json:"balance"`           // Denormalized cache, debit-positive
	AuditFields
}
