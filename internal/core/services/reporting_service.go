package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mptrsn/corpledger/internal/core/domain"
	portssvc "github.com/mptrsn/corpledger/internal/core/ports/services"
	"github.com/mptrsn/corpledger/internal/utils/money"
)

// reportingService derives financial statements from the balance manager and the
// account registry. Reports are pure reads: generating one never mutates any
// balance, so the same inputs always yield the same report.
type reportingService struct {
	BaseService
	registry *AccountRegistry
	balances *BalanceService
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// NewReportingService creates the financial statement aggregator.
func NewReportingService(registry *AccountRegistry, balances *BalanceService) portssvc.ReportingSvc {
	return &reportingService{registry: registry, balances: balances}
}

// GenerateTrialBalance lists every registered account with its as-of balance
// bucketed by raw sign: a positive debit-positive balance lands in the debit
// column, a negative one lands in the credit column as its absolute value. The
// report is balanced when total debits equal total credits within epsilon.
func (s *reportingService) GenerateTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	report := &domain.TrialBalanceReport{
		AsOf:         asOf,
		Rows:         []domain.TrialBalanceRow{},
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	for _, account := range s.registry.List() {
		raw := s.balances.RawBalanceAsOf(account.AccountID, &asOf)
		row := domain.TrialBalanceRow{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			AccountName: account.Name,
			AccountType: account.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if raw.IsPositive() {
			row.Debit = raw
		} else if raw.IsNegative() {
			row.Credit = raw.Abs()
		}
		report.Rows = append(report.Rows, row)
		report.TotalDebits = report.TotalDebits.Add(row.Debit)
		report.TotalCredits = report.TotalCredits.Add(row.Credit)
	}

	report.IsBalanced = money.WithinEpsilon(report.TotalDebits, report.TotalCredits)
	s.LogDebug(ctx, "trial balance generated",
		"accounts", len(report.Rows), "isBalanced", report.IsBalanced)
	return report, nil
}

// GenerateBalanceSheet partitions as-of balances into the accounting equation.
// Asset amounts keep the debit-positive sign; liability and equity amounts are
// presented credit-positive. The verdict checks assets against liabilities plus
// equity within epsilon. Revenue and expense balances are folded into equity as
// current earnings so a sheet cut mid-period still balances.
func (s *reportingService) GenerateBalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	report := &domain.BalanceSheetReport{
		AsOf:             asOf,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}

	earnings := decimal.Zero
	for _, account := range s.registry.List() {
		raw := s.balances.RawBalanceAsOf(account.AccountID, &asOf)
		amount := domain.AccountAmount{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			Name:        account.Name,
		}
		switch account.AccountType {
		case domain.Asset:
			amount.NetAmount = raw
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(raw)
		case domain.Liability:
			amount.NetAmount = raw.Neg()
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(amount.NetAmount)
		case domain.Equity:
			amount.NetAmount = raw.Neg()
			report.Equity = append(report.Equity, amount)
			report.TotalEquity = report.TotalEquity.Add(amount.NetAmount)
		case domain.Revenue, domain.Expense:
			earnings = earnings.Sub(raw)
		}
	}

	if !earnings.IsZero() {
		report.Equity = append(report.Equity, domain.AccountAmount{
			Name:      "Current Earnings",
			NetAmount: earnings,
		})
		report.TotalEquity = report.TotalEquity.Add(earnings)
	}

	report.IsBalanced = money.WithinEpsilon(report.TotalAssets, report.TotalLiabilities.Add(report.TotalEquity))
	s.LogDebug(ctx, "balance sheet generated",
		"totalAssets", report.TotalAssets.String(), "isBalanced", report.IsBalanced)
	return report, nil
}

// GenerateIncomeStatement nets revenue and expense activity inside the window:
// credits minus debits for revenue accounts, debits minus credits for expense
// accounts. Net income is total revenue minus total expenses.
func (s *reportingService) GenerateIncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error) {
	report := &domain.IncomeStatementReport{
		From:          from,
		To:            to,
		Revenue:       []domain.AccountAmount{},
		Expenses:      []domain.AccountAmount{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, account := range s.registry.List() {
		if account.AccountType != domain.Revenue && account.AccountType != domain.Expense {
			continue
		}
		debits, credits := s.balances.AccountActivity(account.AccountID, &from, &to)
		amount := domain.AccountAmount{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			Name:        account.Name,
		}
		if account.AccountType == domain.Revenue {
			amount.NetAmount = credits.Sub(debits)
			report.Revenue = append(report.Revenue, amount)
			report.TotalRevenue = report.TotalRevenue.Add(amount.NetAmount)
		} else {
			amount.NetAmount = debits.Sub(credits)
			report.Expenses = append(report.Expenses, amount)
			report.TotalExpenses = report.TotalExpenses.Add(amount.NetAmount)
		}
	}

	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)
	return report, nil
}
