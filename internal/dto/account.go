package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/core/domain"
)

// CreateAccountRequest defines the payload for registering a new account.
type CreateAccountRequest struct {
	Code              string  `json:"code" binding:"required"`
	Name              string  `json:"name" binding:"required"`
	AccountType       string  `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID   *string `json:"parentAccountID"`
	Description       string  `json:"description"`
	EntityID          string  `json:"entityID"`
	AllowTransactions *bool   `json:"allowTransactions"` // Defaults to true
}

// UpdateAccountRequest defines the partial-update payload for an account.
type UpdateAccountRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	IsActive          *bool   `json:"isActive"`
	AllowTransactions *bool   `json:"allowTransactions"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID         string          `json:"accountID"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	AccountType       string          `json:"accountType"`
	NormalBalance     string          `json:"normalBalance"`
	ParentAccountID   string          `json:"parentAccountID,omitempty"`
	Description       string          `json:"description,omitempty"`
	IsActive          bool            `json:"isActive"`
	AllowTransactions bool            `json:"allowTransactions"`
	Balance           decimal.Decimal `json:"balance"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:         a.AccountID,
		Code:              a.Code,
		Name:              a.Name,
		AccountType:       string(a.AccountType),
		NormalBalance:     string(a.NormalBalance),
		ParentAccountID:   a.ParentAccountID,
		Description:       a.Description,
		IsActive:          a.IsActive,
		AllowTransactions: a.AllowTransactions,
		Balance:           a.Balance,
	}
}

// ToAccountResponses converts a slice of domain accounts to response DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
