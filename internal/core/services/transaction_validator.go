package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/apperrors"
	"github.com/mptrsn/corpledger/internal/core/domain"
	"github.com/mptrsn/corpledger/internal/utils/money"
)

// TransactionValidator is the stateless rule engine for proposed transactions.
// Every check accumulates structured violations instead of short-circuiting so a
// single call surfaces all problems at once; callers rely on that shape.
type TransactionValidator struct {
	supportedCurrencies map[string]struct{}
	precision           int32
}

// NewTransactionValidator creates a validator for the given supported currency set
// and decimal precision. Both come from configuration, not hard-coded rules.
func NewTransactionValidator(supportedCurrencies []string, precision int32) *TransactionValidator {
	supported := make(map[string]struct{}, len(supportedCurrencies))
	for _, code := range supportedCurrencies {
		supported[code] = struct{}{}
	}
	return &TransactionValidator{supportedCurrencies: supported, precision: precision}
}

// SupportsCurrency reports whether a currency code is in the configured set.
func (v *TransactionValidator) SupportsCurrency(code string) bool {
	_, ok := v.supportedCurrencies[code]
	return ok
}

// Precision returns the configured decimal precision.
func (v *TransactionValidator) Precision() int32 {
	return v.precision
}

// ValidateDoubleEntry enforces the double-entry invariant on a set of proposed entries.
// An empty set yields exactly the NO_ENTRIES violation and nothing else, so callers
// can distinguish "empty" from "single-sided".
func (v *TransactionValidator) ValidateDoubleEntry(entries []domain.TransactionEntry) []apperrors.ValidationError {
	if len(entries) == 0 {
		return []apperrors.ValidationError{{
			Field:   "entries",
			Message: "transaction has no entries",
			Code:    apperrors.CodeNoEntries,
		}}
	}

	var violations []apperrors.ValidationError
	if len(entries) == 1 {
		violations = append(violations, apperrors.ValidationError{
			Field:   "entries",
			Message: "transaction must have at least two entries",
			Code:    apperrors.CodeSingleEntry,
		})
	}

	for i, entry := range entries {
		violations = append(violations, v.validateEntryAmounts(i, entry)...)
	}

	violations = append(violations, v.validateBalancePerCurrency(entries)...)
	return violations
}

// ValidateTransactionData checks the presence of header fields, then delegates to
// ValidateDoubleEntry for the entries.
func (v *TransactionValidator) ValidateTransactionData(data domain.TransactionData) []apperrors.ValidationError {
	var violations []apperrors.ValidationError

	if data.Description == "" {
		violations = append(violations, apperrors.ValidationError{
			Field:   "description",
			Message: "transaction description is required",
			Code:    apperrors.CodeMissingDescription,
		})
	}
	if data.TransactionDate.IsZero() {
		violations = append(violations, apperrors.ValidationError{
			Field:   "transactionDate",
			Message: "transaction date is required",
			Code:    apperrors.CodeMissingDate,
		})
	}
	if data.CurrencyCode == "" {
		violations = append(violations, apperrors.ValidationError{
			Field:   "currencyCode",
			Message: "transaction currency is required",
			Code:    apperrors.CodeMissingCurrency,
		})
	} else if !v.SupportsCurrency(data.CurrencyCode) {
		violations = append(violations, apperrors.ValidationError{
			Field:   "currencyCode",
			Message: fmt.Sprintf("currency %s is not supported", data.CurrencyCode),
			Code:    apperrors.CodeUnsupportedCurrency,
		})
	}

	entries := resolveEntryCurrencies(data)
	for _, entry := range entries {
		if entry.CurrencyCode != "" && !v.SupportsCurrency(entry.CurrencyCode) {
			violations = append(violations, apperrors.ValidationError{
				Field:   "entries",
				Message: fmt.Sprintf("currency %s is not supported", entry.CurrencyCode),
				Code:    apperrors.CodeUnsupportedCurrency,
			})
			break
		}
	}

	return append(violations, v.ValidateDoubleEntry(entries)...)
}

// validateEntryAmounts enforces the sign and exclusivity rules on one entry:
// exactly one of debit/credit strictly positive, the other exactly zero.
func (v *TransactionValidator) validateEntryAmounts(index int, entry domain.TransactionEntry) []apperrors.ValidationError {
	var violations []apperrors.ValidationError
	field := fmt.Sprintf("entries[%d]", index)

	if entry.DebitAmount.IsNegative() {
		violations = append(violations, apperrors.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("debit amount %s must not be negative", entry.DebitAmount.String()),
			Code:    apperrors.CodeNegativeDebit,
		})
	}
	if entry.CreditAmount.IsNegative() {
		violations = append(violations, apperrors.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("credit amount %s must not be negative", entry.CreditAmount.String()),
			Code:    apperrors.CodeNegativeCredit,
		})
	}
	if entry.DebitAmount.IsPositive() && entry.CreditAmount.IsPositive() {
		violations = append(violations, apperrors.ValidationError{
			Field:   field,
			Message: "entry cannot carry both a debit and a credit amount",
			Code:    apperrors.CodeBothDebitAndCredit,
		})
	}
	if entry.DebitAmount.IsZero() && entry.CreditAmount.IsZero() {
		violations = append(violations, apperrors.ValidationError{
			Field:   field,
			Message: "entry must carry a debit or a credit amount",
			Code:    apperrors.CodeNoAmount,
		})
	}
	return violations
}

// validateBalancePerCurrency rounds and sums debit/credit totals grouped by entry
// currency. A multi-currency transaction must balance per currency, not only in
// aggregate. Currency groups are visited in first-appearance order so the
// violation list is deterministic.
func (v *TransactionValidator) validateBalancePerCurrency(entries []domain.TransactionEntry) []apperrors.ValidationError {
	type totals struct {
		debits  decimal.Decimal
		credits decimal.Decimal
	}
	byCurrency := make(map[string]*totals)
	var order []string

	for _, entry := range entries {
		t, ok := byCurrency[entry.CurrencyCode]
		if !ok {
			t = &totals{debits: decimal.Zero, credits: decimal.Zero}
			byCurrency[entry.CurrencyCode] = t
			order = append(order, entry.CurrencyCode)
		}
		t.debits = t.debits.Add(money.Round(entry.DebitAmount, v.precision))
		t.credits = t.credits.Add(money.Round(entry.CreditAmount, v.precision))
	}

	var violations []apperrors.ValidationError
	for _, currency := range order {
		t := byCurrency[currency]
		debits := money.Round(t.debits, v.precision)
		credits := money.Round(t.credits, v.precision)
		if !debits.Equal(credits) {
			violations = append(violations, apperrors.ValidationError{
				Field:   "entries",
				Message: fmt.Sprintf("transaction does not balance for %s: debits total %s, credits total %s", currency, debits.String(), credits.String()),
				Code:    apperrors.CodeUnbalancedTransaction,
			})
		}
	}
	return violations
}

// resolveEntryCurrencies fills each entry's currency with the transaction currency
// when the entry does not override it.
func resolveEntryCurrencies(data domain.TransactionData) []domain.TransactionEntry {
	entries := make([]domain.TransactionEntry, len(data.Entries))
	copy(entries, data.Entries)
	for i := range entries {
		if entries[i].CurrencyCode == "" {
			entries[i].CurrencyCode = data.CurrencyCode
		}
	}
	return entries
}
