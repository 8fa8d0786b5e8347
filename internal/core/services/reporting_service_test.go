package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mptrsn/corpledger/internal/core/domain"
	portssvc "github.com/mptrsn/corpledger/internal/core/ports/services"
	"github.com/mptrsn/corpledger/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	registry *services.AccountRegistry
	balances *services.BalanceService
	service  portssvc.ReportingSvc
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.registry = services.NewAccountRegistry()
	s.balances = services.NewBalanceService(services.WithBalanceRegistry(s.registry))
	s.service = services.NewReportingService(s.registry, s.balances)

	for _, a := range []struct {
		id, code, name string
		accountType    domain.AccountType
	}{
		{"cash", "1001", "Cash", domain.Asset},
		{"receivables", "1100", "Accounts Receivable", domain.Asset},
		{"payables", "2001", "Accounts Payable", domain.Liability},
		{"capital", "3001", "Owner Capital", domain.Equity},
		{"sales", "4001", "Sales Revenue", domain.Revenue},
		{"rent", "5001", "Rent Expense", domain.Expense},
	} {
		s.Require().NoError(s.registry.Register(domain.Account{
			AccountID:         a.id,
			Code:              a.code,
			Name:              a.name,
			AccountType:       a.accountType,
			IsActive:          true,
			AllowTransactions: true,
		}))
	}
}

// seedLedger posts a small month of activity: owner funds the company, it makes
// a sale on credit, collects part of it, and pays rent.
func (s *ReportingServiceTestSuite) seedLedger() {
	jan5 := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	jan15 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	jan20 := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	s.balances.AddTransaction(postingTxn(jan5, "cash", "capital", decimal.RequireFromString("1000.00")))
	s.balances.AddTransaction(postingTxn(jan10, "receivables", "sales", decimal.RequireFromString("400.00")))
	s.balances.AddTransaction(postingTxn(jan15, "cash", "receivables", decimal.RequireFromString("250.00")))
	s.balances.AddTransaction(postingTxn(jan20, "rent", "cash", decimal.RequireFromString("120.00")))
}

func (s *ReportingServiceTestSuite) TestTrialBalance_Balanced() {
	s.seedLedger()
	asOf := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	report, err := s.service.GenerateTrialBalance(s.ctx, asOf)

	s.Require().NoError(err)
	s.True(report.IsBalanced)
	s.True(report.TotalDebits.Equal(report.TotalCredits))
	// Every registered account appears, sorted by code.
	s.Len(report.Rows, 6)
	s.Equal("1001", report.Rows[0].AccountCode)

	byID := map[string]domain.TrialBalanceRow{}
	for _, row := range report.Rows {
		byID[row.AccountID] = row
	}
	// Cash: 1000 + 250 - 120 = 1130 debit.
	s.True(byID["cash"].Debit.Equal(decimal.RequireFromString("1130.00")))
	s.True(byID["cash"].Credit.IsZero())
	// Sales carries a credit-side balance, bucketed as a positive credit.
	s.True(byID["sales"].Credit.Equal(decimal.RequireFromString("400.00")))
	s.True(byID["sales"].Debit.IsZero())
}

func (s *ReportingServiceTestSuite) TestTrialBalance_AsOfExcludesLaterPostings() {
	s.seedLedger()
	asOf := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)

	report, err := s.service.GenerateTrialBalance(s.ctx, asOf)

	s.Require().NoError(err)
	s.True(report.IsBalanced)
	byID := map[string]domain.TrialBalanceRow{}
	for _, row := range report.Rows {
		byID[row.AccountID] = row
	}
	// Only the capital injection has hit cash by Jan 12.
	s.True(byID["cash"].Debit.Equal(decimal.RequireFromString("1000.00")))
	s.True(byID["rent"].Debit.IsZero())
}

func (s *ReportingServiceTestSuite) TestTrialBalance_GenerationIsIdempotent() {
	s.seedLedger()
	asOf := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	first, err := s.service.GenerateTrialBalance(s.ctx, asOf)
	s.Require().NoError(err)
	second, err := s.service.GenerateTrialBalance(s.ctx, asOf)
	s.Require().NoError(err)

	s.True(first.TotalDebits.Equal(second.TotalDebits))
	s.True(first.TotalCredits.Equal(second.TotalCredits))
	s.Equal(len(first.Rows), len(second.Rows))
	// Generating a report never mutates underlying balances.
	s.True(s.balances.Balance("cash").Equal(decimal.RequireFromString("1130.00")))
}

func (s *ReportingServiceTestSuite) TestBalanceSheet_EquationHolds() {
	s.seedLedger()
	asOf := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	report, err := s.service.GenerateBalanceSheet(s.ctx, asOf)

	s.Require().NoError(err)
	s.True(report.IsBalanced)
	// Assets: cash 1130 + receivables 150 = 1280.
	s.True(report.TotalAssets.Equal(decimal.RequireFromString("1280.00")))
	// Equity: capital 1000 + current earnings (400 revenue - 120 rent) = 1280.
	s.True(report.TotalEquity.Equal(decimal.RequireFromString("1280.00")))
	s.True(report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity)))
}

func (s *ReportingServiceTestSuite) TestIncomeStatement_WindowedNetIncome() {
	s.seedLedger()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	report, err := s.service.GenerateIncomeStatement(s.ctx, from, to)

	s.Require().NoError(err)
	s.True(report.TotalRevenue.Equal(decimal.RequireFromString("400.00")))
	s.True(report.TotalExpenses.Equal(decimal.RequireFromString("120.00")))
	s.True(report.NetIncome.Equal(decimal.RequireFromString("280.00")))
}

func (s *ReportingServiceTestSuite) TestIncomeStatement_OutsideWindowIsZero() {
	s.seedLedger()
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)

	report, err := s.service.GenerateIncomeStatement(s.ctx, from, to)

	s.Require().NoError(err)
	s.True(report.TotalRevenue.IsZero())
	s.True(report.TotalExpenses.IsZero())
	s.True(report.NetIncome.IsZero())
}

func (s *ReportingServiceTestSuite) TestTrialBalance_EmptyLedger() {
	report, err := s.service.GenerateTrialBalance(s.ctx, time.Now())

	s.Require().NoError(err)
	s.True(report.IsBalanced)
	s.True(report.TotalDebits.IsZero())
	s.True(report.TotalCredits.IsZero())
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func TestReportGeneration_ReversalRestoresReports(t *testing.T) {
	registry := services.NewAccountRegistry()
	for _, a := range []struct {
		id, code    string
		accountType domain.AccountType
	}{
		{"cash", "1001", domain.Asset},
		{"sales", "4001", domain.Revenue},
	} {
		require.NoError(t, registry.Register(domain.Account{
			AccountID: a.id, Code: a.code, Name: a.code, AccountType: a.accountType,
			IsActive: true, AllowTransactions: true,
		}))
	}
	balances := services.NewBalanceService(services.WithBalanceRegistry(registry))
	reporting := services.NewReportingService(registry, balances)
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	balances.AddTransaction(postingTxn(date, "cash", "sales", decimal.RequireFromString("75.00")))
	// The reversal posts the mirror image.
	balances.AddTransaction(postingTxn(date, "sales", "cash", decimal.RequireFromString("75.00")))

	report, err := reporting.GenerateTrialBalance(context.Background(), date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, report.IsBalanced)
	assert.True(t, report.TotalDebits.IsZero())
	assert.True(t, report.TotalCredits.IsZero())
}
