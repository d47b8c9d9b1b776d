package ledger

import (
	"time"

	"github.com/dkarpov/playerledger/pkg/money"
)

// Type classifies a transaction's effect on the account balance.
type Type string

const (
	// Credit increases the account balance.
	Credit Type = "CREDIT"
	// Debit decreases the account balance.
	Debit Type = "DEBIT"
)

// Transaction is an immutable CREDIT or DEBIT record against one account.
// Once committed it is never updated; the only further transition is deletion.
type Transaction struct {
	ID        int64
	Type      Type
	Amount    money.Money
	AccountID int64
	CreatedAt time.Time
}

// NewTransaction creates a transaction record with its creation timestamp
// set now. The id may be zero (store-assigned) or caller-supplied.
func NewTransaction(id int64, typ Type, amount money.Money) *Transaction {
	return &Transaction{
		ID:        id,
		Type:      typ,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTransactionFromData hydrates a Transaction from raw data. It bypasses
// invariants and should only be used by repositories and test fixtures.
func NewTransactionFromData(
	id int64,
	typ Type,
	amount money.Money,
	accountID int64,
	created time.Time,
) *Transaction {
	return &Transaction{
		ID:        id,
		Type:      typ,
		Amount:    amount,
		AccountID: accountID,
		CreatedAt: created,
	}
}
