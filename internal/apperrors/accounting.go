package apperrors

import (
	"fmt"
	"strings"
)

// Stable machine-readable violation codes. These are part of the external contract
// consumed by downstream error mapping and must not be renamed.
const (
	CodeNoEntries             = "NO_ENTRIES"
	CodeSingleEntry           = "SINGLE_ENTRY"
	CodeNoAmount              = "NO_AMOUNT"
	CodeZeroAmount            = "ZERO_AMOUNT"
	CodeBothDebitAndCredit    = "BOTH_DEBIT_AND_CREDIT"
	CodeNegativeDebit         = "NEGATIVE_DEBIT"
	CodeNegativeCredit        = "NEGATIVE_CREDIT"
	CodeUnbalancedTransaction = "UNBALANCED_TRANSACTION"
	CodeInvalidAccountID      = "INVALID_ACCOUNT_ID"
	CodeAccountInactive       = "ACCOUNT_INACTIVE"
	CodeAccountNoTransactions = "ACCOUNT_NO_TRANSACTIONS"
	CodeUnsupportedCurrency   = "UNSUPPORTED_CURRENCY"
	CodeInvalidExchangeRate   = "INVALID_EXCHANGE_RATE"
	CodeMissingDescription    = "MISSING_DESCRIPTION"
	CodeMissingDate           = "MISSING_DATE"
	CodeMissingCurrency       = "MISSING_CURRENCY"
)

// ValidationError is a single structured validation failure.
// Validators accumulate these instead of short-circuiting so one call surfaces
// every problem at once.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (v ValidationError) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Field, v.Message, v.Code)
}

// ErrorKind tags an AccountingError with its failure category.
type ErrorKind string

const (
	KindStructural     ErrorKind = "STRUCTURAL"
	KindDoubleEntry    ErrorKind = "DOUBLE_ENTRY"
	KindAccountState   ErrorKind = "ACCOUNT_STATE"
	KindCurrency       ErrorKind = "CURRENCY"
	KindReconciliation ErrorKind = "RECONCILIATION"
)

// AccountingError is raised only at the boundary where a transaction is about to be
// persisted; pure validate calls return []ValidationError and never error.
type AccountingError struct {
	Kind       ErrorKind
	Message    string
	Violations []ValidationError
}

func (e *AccountingError) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, strings.Join(parts, "; "))
}

// Is lets callers match any accounting error with errors.Is(err, ErrValidation).
func (e *AccountingError) Is(target error) bool {
	return target == ErrValidation
}

// NewDoubleEntryError builds an AccountingError for double-entry violations.
func NewDoubleEntryError(message string, violations []ValidationError) *AccountingError {
	return &AccountingError{Kind: KindDoubleEntry, Message: message, Violations: violations}
}

// NewAccountStateError builds an AccountingError for inactive or transaction-disallowed accounts.
func NewAccountStateError(message string, violations []ValidationError) *AccountingError {
	return &AccountingError{Kind: KindAccountState, Message: message, Violations: violations}
}

// NewCurrencyError builds an AccountingError for unsupported currencies or bad rates.
func NewCurrencyError(message string, violations []ValidationError) *AccountingError {
	return &AccountingError{Kind: KindCurrency, Message: message, Violations: violations}
}
