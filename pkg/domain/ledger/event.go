package ledger

import (
	"time"

	"github.com/google/uuid"
)

// TransactionCommitted is published by the engine's callers after a
// successful commit. Subscribers (the auditor) receive the committed
// transaction together with the post-commit balance.
type TransactionCommitted struct {
	EventID     uuid.UUID
	Transaction *Transaction
	Account     *Account
	CommittedAt time.Time
}

// NewTransactionCommitted builds a commit event with a fresh event id.
func NewTransactionCommitted(tx *Transaction, account *Account) TransactionCommitted {
	return TransactionCommitted{
		EventID:     uuid.New(),
		Transaction: tx,
		Account:     account,
		CommittedAt: time.Now().UTC(),
	}
}

// Type implements eventbus.Event.
func (TransactionCommitted) Type() string { return "TransactionCommitted" }
