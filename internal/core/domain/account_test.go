package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mptrsn/corpledger/internal/core/domain"
)

func TestNormalBalanceFor(t *testing.T) {
	cases := []struct {
		accountType domain.AccountType
		want        domain.NormalBalance
	}{
		{domain.Asset, domain.NormalDebit},
		{domain.Expense, domain.NormalDebit},
		{domain.Liability, domain.NormalCredit},
		{domain.Equity, domain.NormalCredit},
		{domain.Revenue, domain.NormalCredit},
	}
	for _, tc := range cases {
		got, err := domain.NormalBalanceFor(tc.accountType)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got, "account type %s", tc.accountType)
	}
}

func TestNormalBalanceFor_UnknownType(t *testing.T) {
	_, err := domain.NormalBalanceFor(domain.AccountType("CONTRA"))
	assert.Error(t, err)
}
