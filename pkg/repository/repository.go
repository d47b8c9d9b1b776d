// Package repository defines the persistence contracts consumed by the
// transaction engine and the application services. Implementations live in
// infra/repository; they carry no business rules — validation and balance
// logic stay in the engine.
package repository

import (
	"context"
	"time"

	"github.com/dkarpov/playerledger/pkg/currency"
	"github.com/dkarpov/playerledger/pkg/domain/ledger"
	"github.com/dkarpov/playerledger/pkg/domain/player"
)

// AccountRepository is the keyed persistence surface for accounts.
type AccountRepository interface {
	// Get returns the account or ledger.ErrAccountNotFound.
	Get(ctx context.Context, id int64) (*ledger.Account, error)
	// GetByPlayer returns the first account owned by playerID, or
	// ledger.ErrAccountNotFound. The tie-break between duplicate accounts
	// is deterministic within one process (lowest id) but unspecified.
	GetByPlayer(ctx context.Context, playerID int64) (*ledger.Account, error)
	// List returns all accounts.
	List(ctx context.Context) ([]*ledger.Account, error)
	// Create persists a new account and returns it with its assigned id.
	Create(ctx context.Context, a *ledger.Account) (*ledger.Account, error)
	// Update persists the account's mutable state (its balance).
	Update(ctx context.Context, a *ledger.Account) error
	// Delete removes the account. The bool reports whether a row existed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// TransactionRepository is the keyed persistence surface for transactions.
type TransactionRepository interface {
	// Get returns the transaction or ledger.ErrTransactionNotFound.
	Get(ctx context.Context, id int64) (*ledger.Transaction, error)
	// Create persists a new transaction. A zero id is store-assigned.
	Create(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error)
	// Delete removes the transaction. The bool reports whether a row
	// existed; a repeated delete returns false with no error.
	Delete(ctx context.Context, id int64) (bool, error)
	// ListByAccount returns the account's transactions in insertion order.
	ListByAccount(ctx context.Context, accountID int64) ([]*ledger.Transaction, error)
	// ListByPeriod returns the account's transactions with CreatedAt
	// strictly between from and to, in insertion order.
	ListByPeriod(ctx context.Context, from, to time.Time, accountID int64) ([]*ledger.Transaction, error)
}

// PlayerRepository is the keyed persistence surface for players.
type PlayerRepository interface {
	// Get returns the player or player.ErrPlayerNotFound.
	Get(ctx context.Context, id int64) (*player.Player, error)
	// GetByUsername returns the player or player.ErrPlayerNotFound.
	GetByUsername(ctx context.Context, username string) (*player.Player, error)
	// Create persists a new player and returns it with its assigned id.
	Create(ctx context.Context, p *player.Player) (*player.Player, error)
	// Delete removes the player. The bool reports whether a row existed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// CurrencyRepository is the keyed persistence surface for currencies.
type CurrencyRepository interface {
	// GetByCode returns the currency or currency.ErrUnsupportedCurrency.
	GetByCode(ctx context.Context, code currency.Code) (currency.Currency, error)
	// List returns all currencies.
	List(ctx context.Context) ([]currency.Currency, error)
	// Upsert persists a currency by its unique code.
	Upsert(ctx context.Context, c currency.Currency) (currency.Currency, error)
}
