// Package ledger implements the transaction engine: the only path by which
// a transaction is committed and an account balance is mutated.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domain "github.com/dkarpov/playerledger/pkg/domain/ledger"
	"github.com/dkarpov/playerledger/pkg/money"
	"github.com/dkarpov/playerledger/pkg/repository"
)

// Engine orchestrates validation, duplicate detection, balance computation
// and the two-store write.
//
// Commits against the same account are serialized by a per-account mutex,
// preserving the non-negative-balance invariant under concurrent callers.
// The transaction write and the balance write remain two sequential store
// calls, not one atomic unit: a crash between them leaves the transaction
// recorded with a stale balance.
type Engine struct {
	accounts repository.AccountRepository
	txs      repository.TransactionRepository
	locks    sync.Map // account id -> *sync.Mutex
	logger   *slog.Logger
}

// NewEngine creates a transaction engine over the given stores.
func NewEngine(
	accounts repository.AccountRepository,
	txs repository.TransactionRepository,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		accounts: accounts,
		txs:      txs,
		logger:   logger.With("component", "engine"),
	}
}

func (e *Engine) accountLock(id int64) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// ProcessAndCommit validates the transaction against the account, rejects
// duplicates, persists the transaction record and then the updated balance.
// Any validation failure aborts with no state change. On success the
// account's balance and transaction list are updated in place and the
// persisted transaction is returned.
func (e *Engine) ProcessAndCommit(
	ctx context.Context,
	tx *domain.Transaction,
	account *domain.Account,
) (*domain.Transaction, error) {
	mu := e.accountLock(account.ID)
	mu.Lock()
	defer mu.Unlock()

	tx.AccountID = account.ID

	// Concurrent callers may hold separately loaded copies of the same
	// account; the committed balance in the store is authoritative.
	fresh, err := e.accounts.Get(ctx, account.ID)
	switch {
	case err == nil:
		account.Balance = fresh.Balance
	case errors.Is(err, domain.ErrAccountNotFound):
		// Unpersisted account: trust the caller's balance.
	default:
		return nil, err
	}

	if err := domain.ValidateTransactionFunds(tx, account); err != nil {
		return nil, err
	}
	if err := domain.ValidateTransactionCurrency(tx.Amount.Currency()); err != nil {
		return nil, err
	}

	if tx.ID != 0 {
		_, err := e.txs.Get(ctx, tx.ID)
		switch {
		case err == nil:
			return nil, domain.ErrDuplicateTransactionID
		case !errors.Is(err, domain.ErrTransactionNotFound):
			return nil, err
		}
	}

	updated, err := e.updatedBalance(tx, account)
	if err != nil {
		return nil, err
	}

	saved, err := e.txs.Create(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := e.commitBalance(ctx, account, updated); err != nil {
		// The transaction row is already persisted; see the crash-window
		// note on Engine.
		return nil, err
	}

	account.Transactions = append(account.Transactions, saved)
	e.logger.Info("transaction committed",
		"transaction_id", saved.ID,
		"account_id", account.ID,
		"type", saved.Type,
		"balance", account.Balance.String(),
	)
	return saved, nil
}

// updatedBalance computes the post-commit balance. Unknown transaction
// types leave the balance unchanged. Arithmetic failures (a currency
// mismatch the funds check does not guard) reject the transaction.
func (e *Engine) updatedBalance(tx *domain.Transaction, account *domain.Account) (money.Money, error) {
	var (
		updated money.Money
		err     error
	)
	switch tx.Type {
	case domain.Credit:
		updated, err = account.Balance.Add(tx.Amount)
	case domain.Debit:
		updated, err = account.Balance.Sub(tx.Amount)
	default:
		return account.Balance, nil
	}
	if err != nil {
		return money.Money{}, fmt.Errorf("%w: %w", domain.ErrTransactionRejected, err)
	}
	return updated, nil
}

// commitBalance re-validates non-negativity and persists the new balance.
func (e *Engine) commitBalance(ctx context.Context, account *domain.Account, balance money.Money) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: balance would become %s", domain.ErrInvalidFunds, balance)
	}
	prev := account.Balance
	account.Balance = balance
	if err := e.accounts.Update(ctx, account); err != nil {
		account.Balance = prev
		return err
	}
	return nil
}

// Save records a transaction against the account's in-memory list and
// persists it without reconciling the balance. Funds are still validated.
func (e *Engine) Save(
	ctx context.Context,
	tx *domain.Transaction,
	account *domain.Account,
) (*domain.Transaction, error) {
	tx.AccountID = account.ID
	if err := domain.ValidateTransactionFunds(tx, account); err != nil {
		return nil, err
	}
	saved, err := e.txs.Create(ctx, tx)
	if err != nil {
		return nil, err
	}
	account.Transactions = append(account.Transactions, saved)
	return saved, nil
}

// FindByPeriod returns the account's transactions with CreatedAt strictly
// between from and to, in store insertion order.
func (e *Engine) FindByPeriod(
	ctx context.Context,
	from, to time.Time,
	accountID int64,
) ([]*domain.Transaction, error) {
	if err := domain.ValidatePeriod(from, to); err != nil {
		return nil, err
	}
	if err := domain.ValidateID(accountID); err != nil {
		return nil, err
	}
	return e.txs.ListByPeriod(ctx, from, to, accountID)
}

// FindByAccount returns all of the account's transactions in insertion order.
func (e *Engine) FindByAccount(ctx context.Context, accountID int64) ([]*domain.Transaction, error) {
	if err := domain.ValidateID(accountID); err != nil {
		return nil, err
	}
	return e.txs.ListByAccount(ctx, accountID)
}

// Delete removes a committed transaction. The account balance is NOT
// adjusted: the ledger keeps append-only semantics and deletion performs
// no compensating credit or debit. A repeated delete returns false.
func (e *Engine) Delete(ctx context.Context, id int64) (bool, error) {
	if err := domain.ValidateID(id); err != nil {
		return false, err
	}
	return e.txs.Delete(ctx, id)
}
