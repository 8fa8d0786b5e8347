package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/apperrors"
	"github.com/mptrsn/corpledger/internal/core/domain"
	"github.com/mptrsn/corpledger/internal/utils/money"
)

// TransactionBuilder assembles a proposed transaction entry by entry. It is a
// single-use value: after Build succeeds the builder refuses further mutation,
// so a stale builder cannot double-post.
type TransactionBuilder struct {
	validator *TransactionValidator
	data      domain.TransactionData
	built     bool
}

// NewTransactionBuilder creates a builder bound to the given validator. The
// transaction currency starts empty and must be set before Build.
func NewTransactionBuilder(validator *TransactionValidator) *TransactionBuilder {
	return &TransactionBuilder{
		validator: validator,
		data: domain.TransactionData{
			Entries: []domain.TransactionEntry{},
		},
	}
}

// SetDescription sets the transaction description.
func (b *TransactionBuilder) SetDescription(description string) *TransactionBuilder {
	if !b.built {
		b.data.Description = description
	}
	return b
}

// SetReference sets the external reference (invoice number, check number).
func (b *TransactionBuilder) SetReference(reference string) *TransactionBuilder {
	if !b.built {
		b.data.Reference = reference
	}
	return b
}

// SetDate sets the transaction date.
func (b *TransactionBuilder) SetDate(date time.Time) *TransactionBuilder {
	if !b.built {
		b.data.TransactionDate = date
	}
	return b
}

// SetCurrency sets the transaction-level currency used by entries that do not
// specify their own.
func (b *TransactionBuilder) SetCurrency(currencyCode string) *TransactionBuilder {
	if !b.built {
		b.data.CurrencyCode = currencyCode
	}
	return b
}

// Debit appends a debit entry. The amount is rounded to the configured precision
// at capture time so later balance checks compare like with like.
func (b *TransactionBuilder) Debit(accountID string, amount decimal.Decimal, description string) *TransactionBuilder {
	return b.addEntry(accountID, amount, decimal.Zero, description, "")
}

// Credit appends a credit entry, rounded the same way as Debit.
func (b *TransactionBuilder) Credit(accountID string, amount decimal.Decimal, description string) *TransactionBuilder {
	return b.addEntry(accountID, decimal.Zero, amount, description, "")
}

// DebitInCurrency appends a debit entry denominated in its own currency.
func (b *TransactionBuilder) DebitInCurrency(accountID string, amount decimal.Decimal, currencyCode, description string) *TransactionBuilder {
	return b.addEntry(accountID, amount, decimal.Zero, description, currencyCode)
}

// CreditInCurrency appends a credit entry denominated in its own currency.
func (b *TransactionBuilder) CreditInCurrency(accountID string, amount decimal.Decimal, currencyCode, description string) *TransactionBuilder {
	return b.addEntry(accountID, decimal.Zero, amount, description, currencyCode)
}

func (b *TransactionBuilder) addEntry(accountID string, debit, credit decimal.Decimal, description, currencyCode string) *TransactionBuilder {
	if b.built {
		return b
	}
	b.data.Entries = append(b.data.Entries, domain.TransactionEntry{
		AccountID:    accountID,
		DebitAmount:  money.Round(debit, b.validator.Precision()),
		CreditAmount: money.Round(credit, b.validator.Precision()),
		Description:  description,
		CurrencyCode: currencyCode,
	})
	return b
}

// Validate returns the full violation list for the current state without
// consuming the builder. An empty slice means the transaction would build.
func (b *TransactionBuilder) Validate() []apperrors.ValidationError {
	return b.validator.ValidateTransactionData(b.data)
}

// Build validates the assembled transaction and returns the finalized
// TransactionData. On failure it returns an AccountingError carrying every
// violation and leaves the builder reusable; on success the builder is spent.
func (b *TransactionBuilder) Build() (domain.TransactionData, error) {
	if b.built {
		return domain.TransactionData{}, apperrors.NewDoubleEntryError("transaction builder already consumed", nil)
	}
	violations := b.validator.ValidateTransactionData(b.data)
	if len(violations) > 0 {
		return domain.TransactionData{}, apperrors.NewDoubleEntryError("transaction failed validation", violations)
	}

	data := b.data
	data.Entries = resolveEntryCurrencies(data)
	b.built = true
	return data, nil
}
