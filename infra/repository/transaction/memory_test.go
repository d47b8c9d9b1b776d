package transaction_test

import (
	"context"
	"testing"

	transactionrepo "github.com/dkarpov/playerledger/infra/repository/transaction"
	"github.com/dkarpov/playerledger/pkg/currency"
	"github.com/dkarpov/playerledger/pkg/domain/ledger"
	"github.com/dkarpov/playerledger/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(t *testing.T, id int64, typ ledger.Type, amount string) *ledger.Transaction {
	t.Helper()
	m, err := money.New(decimal.RequireFromString(amount), currency.Code("USD"))
	require.NoError(t, err)
	out := ledger.NewTransaction(id, typ, m)
	out.AccountID = 1
	return out
}

func TestMemoryCreateAssignsIDs(t *testing.T) {
	t.Parallel()
	repo := transactionrepo.NewMemory()
	ctx := context.Background()

	first, err := repo.Create(ctx, tx(t, 0, ledger.Credit, "10.00"))
	require.NoError(t, err)
	second, err := repo.Create(ctx, tx(t, 0, ledger.Credit, "20.00"))
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)
}

func TestMemoryCreateRejectsDuplicateID(t *testing.T) {
	t.Parallel()
	repo := transactionrepo.NewMemory()
	ctx := context.Background()

	_, err := repo.Create(ctx, tx(t, 9, ledger.Credit, "10.00"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, tx(t, 9, ledger.Debit, "20.00"))
	require.ErrorIs(t, err, ledger.ErrStorage)

	// The first record survives untouched and is listed exactly once.
	got, err := repo.Get(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, ledger.Credit, got.Type)
	assert.Equal(t, "10.00 USD", got.Amount.String())

	listed, err := repo.ListByAccount(ctx, 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, ledger.Credit, listed[0].Type)
}
