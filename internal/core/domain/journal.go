package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the state of a ledger transaction.
type TransactionStatus string

const (
	TransactionStatusPosted   TransactionStatus = "POSTED"
	TransactionStatusReversed TransactionStatus = "REVERSED"
)

// TransactionEntry is one proposed debit-or-credit line of a not-yet-persisted transaction.
// Exactly one of DebitAmount/CreditAmount is strictly positive; the other is exactly zero.
type TransactionEntry struct {
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
	CurrencyCode string          `json:"currencyCode"` // Defaults to the transaction currency
}

// TransactionData is a proposed transaction prior to validation and persistence.
// It has no persisted side effects until it reaches the journal entry manager.
type TransactionData struct {
	Description     string             `json:"description"`
	Reference       string             `json:"reference"`
	TransactionDate time.Time          `json:"transactionDate"`
	CurrencyCode    string             `json:"currencyCode"`
	Entries         []TransactionEntry `json:"entries"`
}

// JournalEntry is one persisted debit-or-credit line belonging to a transaction.
// Immutable once created, except for reconciliation metadata and audit fields.
type JournalEntry struct {
	EntryID          string          `json:"entryID"`       // Primary Key (UUID)
	TransactionID    string          `json:"transactionID"` // FK -> LedgerTransaction
	AccountID        string          `json:"accountID"`
	DebitAmount      decimal.Decimal `json:"debitAmount"`
	CreditAmount     decimal.Decimal `json:"creditAmount"`
	Description      string          `json:"description"`
	CurrencyCode     string          `json:"currencyCode"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`     // Entry currency -> base currency, exactly 1 when equal
	BaseCurrencyCode string          `json:"baseCurrencyCode"` // The ledger's home currency
	BaseDebitAmount  decimal.Decimal `json:"baseDebitAmount"`
	BaseCreditAmount decimal.Decimal `json:"baseCreditAmount"`
	IsReconciled     bool            `json:"isReconciled"`
	ReconciliationID *string         `json:"reconciliationID"` // External record reference, e.g. a bank statement line
	PostedAt         *time.Time      `json:"postedAt"`
	PostedBy         string          `json:"postedBy"`
	AuditFields
}

// LedgerTransaction is a persisted, balanced financial event composed of journal entries.
type LedgerTransaction struct {
	TransactionID   string            `json:"transactionID"` // Primary Key (UUID)
	Number          string            `json:"number"`        // Sequential per fiscal year, e.g. "2025-000123"
	Description     string            `json:"description"`
	Reference       string            `json:"reference"`
	TransactionDate time.Time         `json:"transactionDate"`
	CurrencyCode    string            `json:"currencyCode"`
	Status          TransactionStatus `json:"status"`
	Entries         []JournalEntry    `json:"entries,omitempty"`
	AuditFields
}
