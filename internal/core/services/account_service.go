package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/apperrors"
	"github.com/mptrsn/corpledger/internal/core/domain"
	portsrepo "github.com/mptrsn/corpledger/internal/core/ports/repositories"
	portssvc "github.com/mptrsn/corpledger/internal/core/ports/services"
	"github.com/mptrsn/corpledger/internal/dto"
)

// accountService manages the chart of accounts. Writes go through the repository
// first and are mirrored into the in-memory registry on success, so validators
// always see the persisted state.
type accountService struct {
	BaseService
	repo     portsrepo.AccountRepositoryFacade
	registry *AccountRegistry
}

var _ portssvc.AccountSvc = (*accountService)(nil)

// NewAccountService creates the account registry service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, registry *AccountRegistry) portssvc.AccountSvc {
	return &accountService{repo: repo, registry: registry}
}

// CreateAccount registers a new account. The normal balance is derived from the
// account type, never taken from the caller. Codes are unique; a duplicate maps
// to ErrDuplicate.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	normalBalance, err := domain.NormalBalanceFor(domain.AccountType(req.AccountType))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if existing, err := s.repo.FindAccountByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.repo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, *req.ParentAccountID)
			}
			return nil, err
		}
		if parent.AccountType != domain.AccountType(req.AccountType) {
			return nil, fmt.Errorf("%w: parent account %s has type %s, expected %s",
				apperrors.ErrValidation, parent.Code, parent.AccountType, req.AccountType)
		}
		parentID = parent.AccountID
	}

	allowTransactions := true
	if req.AllowTransactions != nil {
		allowTransactions = *req.AllowTransactions
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:         uuid.NewString(),
		EntityID:          req.EntityID,
		Code:              req.Code,
		Name:              req.Name,
		AccountType:       domain.AccountType(req.AccountType),
		NormalBalance:     normalBalance,
		ParentAccountID:   parentID,
		Description:       req.Description,
		IsActive:          true,
		AllowTransactions: allowTransactions,
		Balance:           decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.repo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "failed to save account", "code", req.Code)
		return nil, err
	}
	if err := s.registry.Replace(account); err != nil {
		s.LogWarn(ctx, "account saved but registry refresh failed", "accountID", account.AccountID, "error", err)
	}
	s.LogInfo(ctx, "account created", "accountID", account.AccountID, "code", account.Code, "type", account.AccountType)
	return &account, nil
}

// GetAccountByID retrieves one account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.repo.FindAccountByID(ctx, accountID)
}

// ListAccounts retrieves all accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.repo.ListAccounts(ctx)
}

// ListAccountsByType retrieves all accounts of one type ordered by code.
func (s *accountService) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	if _, err := domain.NormalBalanceFor(accountType); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return s.repo.ListAccountsByType(ctx, accountType)
}

// UpdateAccount applies a partial update. Type and code are immutable; history
// posted under them must stay interpretable.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if req.AllowTransactions != nil {
		account.AllowTransactions = *req.AllowTransactions
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.repo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "failed to update account", "accountID", accountID)
		return nil, err
	}
	if err := s.registry.Replace(*account); err != nil {
		s.LogWarn(ctx, "account updated but registry refresh failed", "accountID", accountID, "error", err)
	}
	return account, nil
}

// DeactivateAccount retires an account. Its history stays on the books; new
// postings against it are rejected by the journal entry manager.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	now := time.Now().UTC()
	if err := s.repo.DeactivateAccount(ctx, accountID, userID, now); err != nil {
		return err
	}
	if account, err := s.registry.Get(accountID); err == nil {
		account.IsActive = false
		account.LastUpdatedAt = now
		account.LastUpdatedBy = userID
		if err := s.registry.Replace(*account); err != nil {
			s.LogWarn(ctx, "account deactivated but registry refresh failed", "accountID", accountID, "error", err)
		}
	}
	s.LogInfo(ctx, "account deactivated", "accountID", accountID)
	return nil
}
