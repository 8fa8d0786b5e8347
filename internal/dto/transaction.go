package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/core/domain"
)

// CreateEntryRequest is one proposed debit-or-credit line of a transaction request.
// Exactly one of debitAmount/creditAmount must be strictly positive.
type CreateEntryRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,supportedcurrency"`
}

// CreateTransactionRequest defines the payload for proposing a transaction.
type CreateTransactionRequest struct {
	Description  string               `json:"description" binding:"required"`
	Reference    string               `json:"reference"`
	Date         time.Time            `json:"date" binding:"required"`
	CurrencyCode string               `json:"currencyCode" binding:"required,supportedcurrency"`
	Entries      []CreateEntryRequest `json:"entries" binding:"required"`
}

// ToTransactionData converts the request into the engine's proposal type.
func (r CreateTransactionRequest) ToTransactionData() domain.TransactionData {
	entries := make([]domain.TransactionEntry, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = domain.TransactionEntry{
			AccountID:    e.AccountID,
			DebitAmount:  e.DebitAmount,
			CreditAmount: e.CreditAmount,
			Description:  e.Description,
			CurrencyCode: e.CurrencyCode,
		}
	}
	return domain.TransactionData{
		Description:     r.Description,
		Reference:       r.Reference,
		TransactionDate: r.Date,
		CurrencyCode:    r.CurrencyCode,
		Entries:         entries,
	}
}

// SetExchangeRateRequest defines the payload for storing an exchange rate.
type SetExchangeRateRequest struct {
	Rate decimal.Decimal `json:"rate" binding:"required"`
}

// PostEntriesRequest defines the payload for stamping posting metadata on entries.
type PostEntriesRequest struct {
	EntryIDs []string `json:"entryIDs" binding:"required,min=1"`
}

// ReconcileRequest defines the payload for tagging a journal entry as reconciled.
type ReconcileRequest struct {
	ReconciliationID string `json:"reconciliationID" binding:"required"`
}

// JournalEntryResponse defines the data returned for one journal entry line.
type JournalEntryResponse struct {
	EntryID          string          `json:"entryID"`
	TransactionID    string          `json:"transactionID"`
	AccountID        string          `json:"accountID"`
	DebitAmount      decimal.Decimal `json:"debitAmount"`
	CreditAmount     decimal.Decimal `json:"creditAmount"`
	Description      string          `json:"description,omitempty"`
	CurrencyCode     string          `json:"currencyCode"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	BaseCurrencyCode string          `json:"baseCurrencyCode"`
	BaseDebitAmount  decimal.Decimal `json:"baseDebitAmount"`
	BaseCreditAmount decimal.Decimal `json:"baseCreditAmount"`
	IsReconciled     bool            `json:"isReconciled"`
	ReconciliationID *string         `json:"reconciliationID,omitempty"`
}

// TransactionResponse defines the data returned for a ledger transaction.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	Number        string                 `json:"number"`
	Description   string                 `json:"description"`
	Reference     string                 `json:"reference,omitempty"`
	Date          time.Time              `json:"date"`
	CurrencyCode  string                 `json:"currencyCode"`
	Status        string                 `json:"status"`
	Entries       []JournalEntryResponse `json:"entries,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	CreatedBy     string                 `json:"createdBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		EntryID:          e.EntryID,
		TransactionID:    e.TransactionID,
		AccountID:        e.AccountID,
		DebitAmount:      e.DebitAmount,
		CreditAmount:     e.CreditAmount,
		Description:      e.Description,
		CurrencyCode:     e.CurrencyCode,
		ExchangeRate:     e.ExchangeRate,
		BaseCurrencyCode: e.BaseCurrencyCode,
		BaseDebitAmount:  e.BaseDebitAmount,
		BaseCreditAmount: e.BaseCreditAmount,
		IsReconciled:     e.IsReconciled,
		ReconciliationID: e.ReconciliationID,
	}
}

// ToTransactionResponse converts a domain.LedgerTransaction to its response DTO.
func ToTransactionResponse(t *domain.LedgerTransaction) TransactionResponse {
	entries := make([]JournalEntryResponse, len(t.Entries))
	for i := range t.Entries {
		entries[i] = ToJournalEntryResponse(&t.Entries[i])
	}
	return TransactionResponse{
		TransactionID: t.TransactionID,
		Number:        t.Number,
		Description:   t.Description,
		Reference:     t.Reference,
		Date:          t.TransactionDate,
		CurrencyCode:  t.CurrencyCode,
		Status:        string(t.Status),
		Entries:       entries,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
	}
}
