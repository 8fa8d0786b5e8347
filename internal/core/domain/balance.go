package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the derived running balance of one account.
// It is a pure function of the posted journal entry set and is cached for O(1) reads;
// the balance manager can always recompute it from scratch for as-of queries.
type AccountBalance struct {
	AccountID     string          `json:"accountID"`
	Balance       decimal.Decimal `json:"balance"` // Debit-positive convention
	CurrencyCode  string          `json:"currencyCode"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	LastUpdated   time.Time       `json:"lastUpdated"`
}
