package ledger_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	accountrepo "github.com/dkarpov/playerledger/infra/repository/account"
	transactionrepo "github.com/dkarpov/playerledger/infra/repository/transaction"
	domain "github.com/dkarpov/playerledger/pkg/domain/ledger"
	"github.com/dkarpov/playerledger/pkg/money"
	engine "github.com/dkarpov/playerledger/pkg/service/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	engine   *engine.Engine
	accounts *accountrepo.MemoryRepository
	txs      *transactionrepo.MemoryRepository
	account  *domain.Account
}

// newFixture persists one USD account with the given starting balance.
func newFixture(t *testing.T, balance string) *fixture {
	t.Helper()
	accounts := accountrepo.NewMemory()
	txs := transactionrepo.NewMemory()

	acc, err := domain.New().
		WithPlayerID(1).
		WithCurrency("USD").
		WithBalance(decimal.RequireFromString(balance)).
		Build()
	require.NoError(t, err)
	acc, err = accounts.Create(context.Background(), acc)
	require.NoError(t, err)

	return &fixture{
		engine:   engine.NewEngine(accounts, txs, discardLogger()),
		accounts: accounts,
		txs:      txs,
		account:  acc,
	}
}

func usd(t *testing.T, s string) money.Money {
	t.Helper()
	m, err := money.FromString(s, "USD")
	require.NoError(t, err)
	return m
}

// Account balance 100.00 USD; DEBIT 40.00 -> 60.00; CREDIT 25.00 -> 85.00;
// DEBIT 1000.00 -> rejected, balance stays 85.00.
func TestProcessAndCommitScenario(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "100.00")
	ctx := context.Background()

	tx, err := f.engine.ProcessAndCommit(ctx, domain.NewTransaction(1, domain.Debit, usd(t, "40.00")), f.account)
	require.NoError(t, err)
	assert.EqualValues(t, f.account.ID, tx.AccountID)
	assert.Equal(t, "60.00 USD", f.account.Balance.String())

	_, err = f.engine.ProcessAndCommit(ctx, domain.NewTransaction(2, domain.Credit, usd(t, "25.00")), f.account)
	require.NoError(t, err)
	assert.Equal(t, "85.00 USD", f.account.Balance.String())

	_, err = f.engine.ProcessAndCommit(ctx, domain.NewTransaction(3, domain.Debit, usd(t, "1000.00")), f.account)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, "85.00 USD", f.account.Balance.String())

	// The rejected debit left no trace in the store.
	_, err = f.txs.Get(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	stored, err := f.accounts.Get(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, "85.00 USD", stored.Balance.String())
}

// The persisted balance always equals the net of committed transactions.
func TestBalanceEqualsNetOfCommits(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "0.00")
	ctx := context.Background()

	steps := []struct {
		typ    domain.Type
		amount string
		want   string
	}{
		{domain.Credit, "10.00", "10.00 USD"},
		{domain.Credit, "2.50", "12.50 USD"},
		{domain.Debit, "0.50", "12.00 USD"},
		{domain.Debit, "12.00", "0.00 USD"},
		{domain.Credit, "0.01", "0.01 USD"},
	}
	for i, step := range steps {
		_, err := f.engine.ProcessAndCommit(ctx,
			domain.NewTransaction(int64(i+1), step.typ, usd(t, step.amount)), f.account)
		require.NoError(t, err)
		assert.Equal(t, step.want, f.account.Balance.String())
		assert.False(t, f.account.Balance.IsNegative())
	}
	assert.Len(t, f.account.Transactions, len(steps))
}

func TestProcessAndCommitDuplicateID(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "100.00")
	ctx := context.Background()

	_, err := f.engine.ProcessAndCommit(ctx, domain.NewTransaction(7, domain.Credit, usd(t, "5.00")), f.account)
	require.NoError(t, err)

	_, err = f.engine.ProcessAndCommit(ctx, domain.NewTransaction(7, domain.Credit, usd(t, "5.00")), f.account)
	assert.ErrorIs(t, err, domain.ErrDuplicateTransactionID)
	assert.Equal(t, "105.00 USD", f.account.Balance.String(), "duplicate leaves the balance unchanged")
}

func TestProcessAndCommitStoreAssignedIDs(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "0.00")
	ctx := context.Background()

	first, err := f.engine.ProcessAndCommit(ctx, domain.NewTransaction(0, domain.Credit, usd(t, "1.00")), f.account)
	require.NoError(t, err)
	second, err := f.engine.ProcessAndCommit(ctx, domain.NewTransaction(0, domain.Credit, usd(t, "1.00")), f.account)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestProcessAndCommitUnknownTypeLeavesBalance(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "50.00")
	ctx := context.Background()

	_, err := f.engine.ProcessAndCommit(ctx,
		domain.NewTransaction(1, domain.Type("TRANSFER"), usd(t, "10.00")), f.account)
	require.NoError(t, err)
	assert.Equal(t, "50.00 USD", f.account.Balance.String())
}

func TestProcessAndCommitRejectionsWriteNothing(t *testing.T) {
	t.Parallel()

	t.Run("negative amount", func(t *testing.T) {
		f := newFixture(t, "50.00")
		_, err := f.engine.ProcessAndCommit(context.Background(),
			domain.NewTransaction(1, domain.Credit, usd(t, "-1.00")), f.account)
		assert.ErrorIs(t, err, domain.ErrInvalidFunds)
		txs, err := f.txs.ListByAccount(context.Background(), f.account.ID)
		require.NoError(t, err)
		assert.Empty(t, txs)
	})

	t.Run("currency mismatch", func(t *testing.T) {
		f := newFixture(t, "50.00")
		eur, err := money.FromString("1.00", "EUR")
		require.NoError(t, err)
		_, err = f.engine.ProcessAndCommit(context.Background(),
			domain.NewTransaction(1, domain.Debit, eur), f.account)
		assert.ErrorIs(t, err, domain.ErrTransactionRejected)
		assert.Equal(t, "50.00 USD", f.account.Balance.String())
	})
}

// Save records the transaction without touching the balance.
func TestSaveHasNoBalanceSideEffect(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "100.00")
	ctx := context.Background()

	saved, err := f.engine.Save(ctx, domain.NewTransaction(9, domain.Debit, usd(t, "40.00")), f.account)
	require.NoError(t, err)
	assert.EqualValues(t, 9, saved.ID)
	assert.Equal(t, "100.00 USD", f.account.Balance.String())
	assert.Len(t, f.account.Transactions, 1)

	_, err = f.engine.Save(ctx, domain.NewTransaction(10, domain.Debit, usd(t, "500.00")), f.account)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

// Save performs no duplicate probe, so the store's id uniqueness is the
// last line of defense: reusing an id must fail instead of overwriting
// the earlier record.
func TestSaveReusedIDKeepsFirstRecord(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "100.00")
	ctx := context.Background()

	_, err := f.engine.Save(ctx, domain.NewTransaction(9, domain.Credit, usd(t, "10.00")), f.account)
	require.NoError(t, err)

	_, err = f.engine.Save(ctx, domain.NewTransaction(9, domain.Debit, usd(t, "20.00")), f.account)
	require.ErrorIs(t, err, domain.ErrStorage)

	txs, err := f.engine.FindByAccount(ctx, f.account.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.Credit, txs[0].Type)
	assert.Equal(t, "10.00 USD", txs[0].Amount.String())
}

// A CREDIT in the wrong currency passes the funds check (it only guards
// debits) and must be rejected at balance computation, not surface a raw
// arithmetic error.
func TestProcessAndCommitCurrencyMismatchRejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "100.00")
	ctx := context.Background()

	eur, err := money.FromString("25.00", "EUR")
	require.NoError(t, err)

	_, err = f.engine.ProcessAndCommit(ctx, domain.NewTransaction(1, domain.Credit, eur), f.account)
	require.ErrorIs(t, err, domain.ErrTransactionRejected)
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)

	assert.Equal(t, "100.00 USD", f.account.Balance.String())
	txs, err := f.engine.FindByAccount(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

// Deleting a committed transaction does not re-credit or re-debit the
// account. This pins the append-only ledger semantics.
func TestDeleteDoesNotReverseBalance(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "100.00")
	ctx := context.Background()

	tx, err := f.engine.ProcessAndCommit(ctx, domain.NewTransaction(1, domain.Debit, usd(t, "40.00")), f.account)
	require.NoError(t, err)
	require.Equal(t, "60.00 USD", f.account.Balance.String())

	existed, err := f.engine.Delete(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	stored, err := f.accounts.Get(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, "60.00 USD", stored.Balance.String(), "no compensating adjustment")

	// Repeated delete is safe: false, no error.
	existed, err = f.engine.Delete(ctx, tx.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestFindByPeriod(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "0.00")
	ctx := context.Background()

	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	mk := func(id int64, created time.Time) {
		tx := domain.NewTransactionFromData(id, domain.Credit, usd(t, "1.00"), f.account.ID, created)
		_, err := f.txs.Create(ctx, tx)
		require.NoError(t, err)
	}
	mk(1, base)                    // inside
	mk(2, from)                    // on the lower bound: excluded
	mk(3, to)                      // on the upper bound: excluded
	mk(4, base.AddDate(0, 2, 0))   // after the window
	mk(5, base.Add(time.Minute))   // inside
	mk(6, from.Add(time.Second))   // just inside
	mk(7, to.Add(-time.Second))    // just inside

	txs, err := f.engine.FindByPeriod(ctx, from, to, f.account.ID)
	require.NoError(t, err)

	var ids []int64
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []int64{1, 5, 6, 7}, ids, "strict bounds, insertion order")

	t.Run("invalid period", func(t *testing.T) {
		_, err := f.engine.FindByPeriod(ctx, to, from, f.account.ID)
		assert.ErrorIs(t, err, domain.ErrIncorrectPeriod)
	})

	t.Run("invalid account id", func(t *testing.T) {
		_, err := f.engine.FindByPeriod(ctx, from, to, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})
}

// Concurrent commits against one account never drive the balance negative
// and never lose an update.
func TestConcurrentCommitsSerialize(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "0.00")
	ctx := context.Background()

	const workers = 40
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each worker re-loads its own copy, as concurrent HTTP
			// handlers would.
			acc, err := f.accounts.Get(ctx, f.account.ID)
			if !assert.NoError(t, err) {
				return
			}
			_, err = f.engine.ProcessAndCommit(ctx,
				domain.NewTransaction(0, domain.Credit, usd(t, "1.00")), acc)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := f.accounts.Get(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.00 USD", stored.Balance.String())
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "10.00")
	ctx := context.Background()

	const workers = 30
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc, err := f.accounts.Get(ctx, f.account.ID)
			if !assert.NoError(t, err) {
				return
			}
			_, err = f.engine.ProcessAndCommit(ctx,
				domain.NewTransaction(0, domain.Debit, usd(t, "1.00")), acc)
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
			}
		}()
	}
	wg.Wait()

	stored, err := f.accounts.Get(ctx, f.account.ID)
	require.NoError(t, err)
	assert.False(t, stored.Balance.IsNegative())
	assert.Equal(t, "0.00 USD", stored.Balance.String(), "exactly ten debits succeed")

	txs, err := f.txs.ListByAccount(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 10)
}
