package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mptrsn/corpledger/internal/apperrors"
	"github.com/mptrsn/corpledger/internal/core/domain"
	portssvc "github.com/mptrsn/corpledger/internal/core/ports/services"
	"github.com/mptrsn/corpledger/internal/core/services"
	"github.com/mptrsn/corpledger/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	mockRepo *MockAccountRepository
	registry *services.AccountRegistry
	service  portssvc.AccountSvc
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockRepo = new(MockAccountRepository)
	s.registry = services.NewAccountRegistry()
	s.service = services.NewAccountService(s.mockRepo, s.registry)
}

// --- Test Cases ---

func (s *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{
		Code:        "1001",
		Name:        "Cash",
		AccountType: "ASSET",
	}
	s.mockRepo.On("FindAccountByCode", s.ctx, "1001").Return(nil, apperrors.ErrNotFound)
	s.mockRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(nil)

	account, err := s.service.CreateAccount(s.ctx, req, "user-1")

	s.Require().NoError(err)
	s.NotEmpty(account.AccountID)
	s.Equal(domain.Asset, account.AccountType)
	// The normal balance is derived, never supplied.
	s.Equal(domain.NormalDebit, account.NormalBalance)
	s.True(account.IsActive)
	s.True(account.AllowTransactions)
	s.True(account.Balance.IsZero())
	s.Equal("user-1", account.CreatedBy)
	// The registry sees the new account immediately.
	s.True(s.registry.Has(account.AccountID))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1001", Name: "Cash", AccountType: "ASSET"}
	s.mockRepo.On("FindAccountByCode", s.ctx, "1001").Return(&domain.Account{AccountID: "existing"}, nil)

	_, err := s.service.CreateAccount(s.ctx, req, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.mockRepo.AssertNotCalled(s.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestCreateAccount_UnknownType() {
	req := dto.CreateAccountRequest{Code: "1001", Name: "Cash", AccountType: "CONTRA"}

	_, err := s.service.CreateAccount(s.ctx, req, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	parentID := "parent-1"
	req := dto.CreateAccountRequest{
		Code:            "2001",
		Name:            "Loans",
		AccountType:     "LIABILITY",
		ParentAccountID: &parentID,
	}
	s.mockRepo.On("FindAccountByCode", s.ctx, "2001").Return(nil, apperrors.ErrNotFound)
	s.mockRepo.On("FindAccountByID", s.ctx, parentID).
		Return(&domain.Account{AccountID: parentID, Code: "1000", AccountType: domain.Asset}, nil)

	_, err := s.service.CreateAccount(s.ctx, req, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestCreateAccount_SummaryAccount() {
	allow := false
	req := dto.CreateAccountRequest{
		Code:              "1000",
		Name:              "Current Assets",
		AccountType:       "ASSET",
		AllowTransactions: &allow,
	}
	s.mockRepo.On("FindAccountByCode", s.ctx, "1000").Return(nil, apperrors.ErrNotFound)
	s.mockRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(nil)

	account, err := s.service.CreateAccount(s.ctx, req, "user-1")

	s.Require().NoError(err)
	s.False(account.AllowTransactions)
}

func (s *AccountServiceTestSuite) TestUpdateAccount_PartialUpdate() {
	existing := &domain.Account{
		AccountID:         "a1",
		Code:              "1001",
		Name:              "Cash",
		AccountType:       domain.Asset,
		NormalBalance:     domain.NormalDebit,
		IsActive:          true,
		AllowTransactions: true,
	}
	newName := "Petty Cash"
	s.mockRepo.On("FindAccountByID", s.ctx, "a1").Return(existing, nil)
	s.mockRepo.On("UpdateAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(nil)

	account, err := s.service.UpdateAccount(s.ctx, "a1", dto.UpdateAccountRequest{Name: &newName}, "user-2")

	s.Require().NoError(err)
	s.Equal("Petty Cash", account.Name)
	// Untouched fields survive the partial update.
	s.True(account.IsActive)
	s.Equal("user-2", account.LastUpdatedBy)
}

func (s *AccountServiceTestSuite) TestUpdateAccount_NotFound() {
	s.mockRepo.On("FindAccountByID", s.ctx, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := s.service.UpdateAccount(s.ctx, "missing", dto.UpdateAccountRequest{}, "user-2")

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestDeactivateAccount() {
	s.Require().NoError(s.registry.Register(domain.Account{
		AccountID: "a1", Code: "1001", Name: "Cash", AccountType: domain.Asset, IsActive: true,
	}))
	s.mockRepo.On("DeactivateAccount", s.ctx, "a1", "user-3", mock.AnythingOfType("time.Time")).Return(nil)

	err := s.service.DeactivateAccount(s.ctx, "a1", "user-3")

	s.Require().NoError(err)
	cached, getErr := s.registry.Get("a1")
	s.Require().NoError(getErr)
	s.False(cached.IsActive)
}

func (s *AccountServiceTestSuite) TestListAccountsByType_InvalidType() {
	_, err := s.service.ListAccountsByType(s.ctx, domain.AccountType("BOGUS"))

	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
