package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mptrsn/corpledger/internal/apperrors"
	"github.com/mptrsn/corpledger/internal/core/domain"
	"github.com/mptrsn/corpledger/internal/core/services"
)

func testAccount(id, code string, accountType domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:         id,
		Code:              code,
		Name:              "Account " + code,
		AccountType:       accountType,
		IsActive:          true,
		AllowTransactions: true,
	}
}

func TestAccountRegistry_RegisterAndGet(t *testing.T) {
	r := services.NewAccountRegistry()
	require.NoError(t, r.Register(testAccount("a1", "1001", domain.Asset)))

	got, err := r.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, "1001", got.Code)
	// The normal balance is derived on registration, not taken from the input.
	assert.Equal(t, domain.NormalDebit, got.NormalBalance)

	assert.True(t, r.Has("a1"))
	assert.False(t, r.Has("a2"))
	assert.Equal(t, 1, r.Len())
}

func TestAccountRegistry_DuplicateID(t *testing.T) {
	r := services.NewAccountRegistry()
	require.NoError(t, r.Register(testAccount("a1", "1001", domain.Asset)))

	err := r.Register(testAccount("a1", "1002", domain.Asset))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicate))
}

func TestAccountRegistry_ReplaceUpserts(t *testing.T) {
	r := services.NewAccountRegistry()
	require.NoError(t, r.Register(testAccount("a1", "1001", domain.Asset)))

	updated := testAccount("a1", "1001", domain.Asset)
	updated.Name = "Renamed"
	require.NoError(t, r.Replace(updated))

	got, err := r.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 1, r.Len())
}

func TestAccountRegistry_GetUnknown(t *testing.T) {
	r := services.NewAccountRegistry()

	_, err := r.Get("missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = r.GetByCode("9999")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestAccountRegistry_GetByCode(t *testing.T) {
	r := services.NewAccountRegistry()
	require.NoError(t, r.Register(testAccount("a1", "1001", domain.Asset)))

	got, err := r.GetByCode("1001")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.AccountID)
}

func TestAccountRegistry_ListSortedByCode(t *testing.T) {
	r := services.NewAccountRegistry()
	require.NoError(t, r.Register(testAccount("a3", "4001", domain.Revenue)))
	require.NoError(t, r.Register(testAccount("a1", "1001", domain.Asset)))
	require.NoError(t, r.Register(testAccount("a2", "2001", domain.Liability)))

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"1001", "2001", "4001"}, []string{list[0].Code, list[1].Code, list[2].Code})
}

func TestAccountRegistry_GetByType(t *testing.T) {
	r := services.NewAccountRegistry()
	require.NoError(t, r.Register(testAccount("a1", "1001", domain.Asset)))
	require.NoError(t, r.Register(testAccount("a2", "1002", domain.Asset)))
	require.NoError(t, r.Register(testAccount("l1", "2001", domain.Liability)))

	assets := r.GetByType(domain.Asset)
	assert.Len(t, assets, 2)
	assert.Empty(t, r.GetByType(domain.Expense))
}

func TestAccountRegistry_Remove(t *testing.T) {
	r := services.NewAccountRegistry()
	require.NoError(t, r.Register(testAccount("a1", "1001", domain.Asset)))

	assert.True(t, r.Remove("a1"))
	assert.False(t, r.Remove("a1"))
	assert.False(t, r.Has("a1"))
}

func TestAccountRegistry_RejectsUnknownAccountType(t *testing.T) {
	r := services.NewAccountRegistry()

	err := r.Register(testAccount("a1", "1001", domain.AccountType("CONTRA")))
	assert.Error(t, err)
}
