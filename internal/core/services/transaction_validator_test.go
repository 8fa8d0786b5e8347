package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mptrsn/corpledger/internal/apperrors"
	"github.com/mptrsn/corpledger/internal/core/domain"
	"github.com/mptrsn/corpledger/internal/core/services"
)

func newTestValidator() *services.TransactionValidator {
	return services.NewTransactionValidator([]string{"USD", "EUR", "JPY"}, 2)
}

func codesOf(violations []apperrors.ValidationError) []string {
	codes := make([]string, len(violations))
	for i, v := range violations {
		codes[i] = v.Code
	}
	return codes
}

func TestValidateDoubleEntry_BalancedTransaction(t *testing.T) {
	v := newTestValidator()
	entries := []domain.TransactionEntry{
		{AccountID: "cash", DebitAmount: decimal.RequireFromString("100.00"), CurrencyCode: "USD"},
		{AccountID: "revenue", CreditAmount: decimal.RequireFromString("100.00"), CurrencyCode: "USD"},
	}

	assert.Empty(t, v.ValidateDoubleEntry(entries))
}

func TestValidateDoubleEntry_EmptyYieldsOnlyNoEntries(t *testing.T) {
	v := newTestValidator()

	violations := v.ValidateDoubleEntry(nil)

	require.Len(t, violations, 1)
	assert.Equal(t, apperrors.CodeNoEntries, violations[0].Code)
	assert.Equal(t, "entries", violations[0].Field)
}

func TestValidateDoubleEntry_SingleEntry(t *testing.T) {
	v := newTestValidator()
	entries := []domain.TransactionEntry{
		{AccountID: "cash", DebitAmount: decimal.RequireFromString("50.00"), CurrencyCode: "USD"},
	}

	violations := v.ValidateDoubleEntry(entries)

	codes := codesOf(violations)
	assert.Contains(t, codes, apperrors.CodeSingleEntry)
	// A lone debit cannot balance.
	assert.Contains(t, codes, apperrors.CodeUnbalancedTransaction)
}

func TestValidateDoubleEntry_Unbalanced(t *testing.T) {
	v := newTestValidator()
	entries := []domain.TransactionEntry{
		{AccountID: "cash", DebitAmount: decimal.RequireFromString("100.00"), CurrencyCode: "USD"},
		{AccountID: "revenue", CreditAmount: decimal.RequireFromString("90.00"), CurrencyCode: "USD"},
	}

	violations := v.ValidateDoubleEntry(entries)

	require.Len(t, violations, 1)
	assert.Equal(t, apperrors.CodeUnbalancedTransaction, violations[0].Code)
	// Both totals are named so the caller can see the gap.
	assert.Contains(t, violations[0].Message, "100")
	assert.Contains(t, violations[0].Message, "90")
}

func TestValidateDoubleEntry_BothDebitAndCredit(t *testing.T) {
	v := newTestValidator()
	entries := []domain.TransactionEntry{
		{AccountID: "cash", DebitAmount: decimal.RequireFromString("10.00"), CreditAmount: decimal.RequireFromString("10.00"), CurrencyCode: "USD"},
		{AccountID: "revenue", CreditAmount: decimal.RequireFromString("10.00"), CurrencyCode: "USD"},
	}

	violations := v.ValidateDoubleEntry(entries)

	codes := codesOf(violations)
	assert.Contains(t, codes, apperrors.CodeBothDebitAndCredit)
}

func TestValidateDoubleEntry_NegativeAndZeroAmounts(t *testing.T) {
	v := newTestValidator()
	entries := []domain.TransactionEntry{
		{AccountID: "a", DebitAmount: decimal.RequireFromString("-5.00"), CurrencyCode: "USD"},
		{AccountID: "b", CreditAmount: decimal.RequireFromString("-5.00"), CurrencyCode: "USD"},
		{AccountID: "c", CurrencyCode: "USD"},
	}

	violations := v.ValidateDoubleEntry(entries)

	codes := codesOf(violations)
	assert.Contains(t, codes, apperrors.CodeNegativeDebit)
	assert.Contains(t, codes, apperrors.CodeNegativeCredit)
	assert.Contains(t, codes, apperrors.CodeNoAmount)
}

func TestValidateDoubleEntry_AccumulatesAllViolations(t *testing.T) {
	v := newTestValidator()
	entries := []domain.TransactionEntry{
		{AccountID: "a", DebitAmount: decimal.RequireFromString("-5.00"), CurrencyCode: "USD"},
		{AccountID: "b", DebitAmount: decimal.RequireFromString("10.00"), CreditAmount: decimal.RequireFromString("3.00"), CurrencyCode: "USD"},
	}

	violations := v.ValidateDoubleEntry(entries)

	codes := codesOf(violations)
	assert.Contains(t, codes, apperrors.CodeNegativeDebit)
	assert.Contains(t, codes, apperrors.CodeBothDebitAndCredit)
	assert.Contains(t, codes, apperrors.CodeUnbalancedTransaction)
	// Entry-level field names carry the offending index.
	assert.Equal(t, "entries[0]", violations[0].Field)
}

func TestValidateDoubleEntry_PerCurrencyBalance(t *testing.T) {
	v := newTestValidator()
	// USD balances, EUR does not. The aggregate happens to balance, which must
	// not mask the EUR gap.
	entries := []domain.TransactionEntry{
		{AccountID: "a", DebitAmount: decimal.RequireFromString("100.00"), CurrencyCode: "USD"},
		{AccountID: "b", CreditAmount: decimal.RequireFromString("100.00"), CurrencyCode: "USD"},
		{AccountID: "c", DebitAmount: decimal.RequireFromString("50.00"), CurrencyCode: "EUR"},
		{AccountID: "d", CreditAmount: decimal.RequireFromString("30.00"), CurrencyCode: "EUR"},
		{AccountID: "e", CreditAmount: decimal.RequireFromString("20.00"), CurrencyCode: "USD"},
		{AccountID: "f", DebitAmount: decimal.RequireFromString("20.00"), CurrencyCode: "USD"},
	}

	violations := v.ValidateDoubleEntry(entries)

	require.Len(t, violations, 1)
	assert.Equal(t, apperrors.CodeUnbalancedTransaction, violations[0].Code)
	assert.Contains(t, violations[0].Message, "EUR")
}

func TestValidateDoubleEntry_RoundsBeforeComparing(t *testing.T) {
	v := newTestValidator()
	// 33.333 + 66.667 rounds to 33.33 + 66.67 = 100.00, matching the credit.
	entries := []domain.TransactionEntry{
		{AccountID: "a", DebitAmount: decimal.RequireFromString("33.333"), CurrencyCode: "USD"},
		{AccountID: "b", DebitAmount: decimal.RequireFromString("66.667"), CurrencyCode: "USD"},
		{AccountID: "c", CreditAmount: decimal.RequireFromString("100.00"), CurrencyCode: "USD"},
	}

	assert.Empty(t, v.ValidateDoubleEntry(entries))
}

func TestValidateTransactionData_MissingHeaderFields(t *testing.T) {
	v := newTestValidator()

	violations := v.ValidateTransactionData(domain.TransactionData{})

	codes := codesOf(violations)
	assert.Contains(t, codes, apperrors.CodeMissingDescription)
	assert.Contains(t, codes, apperrors.CodeMissingDate)
	assert.Contains(t, codes, apperrors.CodeMissingCurrency)
	assert.Contains(t, codes, apperrors.CodeNoEntries)
}

func TestValidateTransactionData_UnsupportedCurrency(t *testing.T) {
	v := newTestValidator()
	data := domain.TransactionData{
		Description:     "office chair",
		TransactionDate: time.Now(),
		CurrencyCode:    "XXX",
		Entries: []domain.TransactionEntry{
			{AccountID: "a", DebitAmount: decimal.RequireFromString("10.00")},
			{AccountID: "b", CreditAmount: decimal.RequireFromString("10.00")},
		},
	}

	violations := v.ValidateTransactionData(data)

	codes := codesOf(violations)
	assert.Contains(t, codes, apperrors.CodeUnsupportedCurrency)
}

func TestValidateTransactionData_EntryCurrencyDefaultsToTransaction(t *testing.T) {
	v := newTestValidator()
	data := domain.TransactionData{
		Description:     "sale",
		TransactionDate: time.Now(),
		CurrencyCode:    "EUR",
		Entries: []domain.TransactionEntry{
			{AccountID: "cash", DebitAmount: decimal.RequireFromString("75.00")},
			{AccountID: "revenue", CreditAmount: decimal.RequireFromString("75.00")},
		},
	}

	assert.Empty(t, v.ValidateTransactionData(data))
}
