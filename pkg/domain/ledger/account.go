// Package ledger holds the core domain entities of the player ledger:
// accounts, their immutable credit/debit transactions, and the pure
// validation rules shared by the transaction engine and its callers.
package ledger

import (
	"time"

	"github.com/dkarpov/playerledger/pkg/currency"
	"github.com/dkarpov/playerledger/pkg/money"
	"github.com/shopspring/decimal"
)

// Account is a player's single currency balance plus its transaction history.
//
// Invariants:
//   - The balance always equals the net of all committed transactions
//     applied in commit order.
//   - The balance is never negative as an observable post-state of a
//     committed debit.
//   - Transactions is a back-reference in insertion order, not the
//     authoritative store.
type Account struct {
	ID           int64
	PlayerID     int64
	Balance      money.Money
	CreatedAt    time.Time
	Transactions []*Transaction
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id        int64
	playerID  int64
	balance   decimal.Decimal
	currency  currency.Code
	createdAt time.Time
}

// New creates a Builder with sensible defaults: zero balance in the
// default currency, created now.
func New() *Builder {
	return &Builder{
		currency:  currency.DefaultCurrency,
		createdAt: time.Now().UTC(),
	}
}

// WithID sets the account id. Used when hydrating from a data store;
// new accounts get their id assigned on creation.
func (b *Builder) WithID(id int64) *Builder {
	b.id = id
	return b
}

// WithPlayerID sets the owning player. Mandatory.
func (b *Builder) WithPlayerID(playerID int64) *Builder {
	b.playerID = playerID
	return b
}

// WithCurrency sets the account currency.
func (b *Builder) WithCurrency(code currency.Code) *Builder {
	b.currency = code
	return b
}

// WithBalance sets the starting balance. For store hydration and test setup.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithCreatedAt sets the creation timestamp. For store hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// Build validates the invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if !currency.IsValidFormat(string(b.currency)) {
		return nil, currency.ErrInvalidCurrencyCode
	}
	if err := ValidateID(b.id); err != nil {
		return nil, err
	}
	if err := ValidateID(b.playerID); err != nil {
		return nil, err
	}
	bal, err := money.New(b.balance, b.currency)
	if err != nil {
		return nil, err
	}
	if bal.IsNegative() {
		return nil, ErrInvalidFunds
	}
	return &Account{
		ID:        b.id,
		PlayerID:  b.playerID,
		Balance:   bal,
		CreatedAt: b.createdAt,
	}, nil
}

// Currency returns the account's currency code.
func (a *Account) Currency() currency.Code {
	return a.Balance.Currency()
}
