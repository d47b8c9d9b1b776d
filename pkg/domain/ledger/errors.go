package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidID is returned when an entity id is negative.
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidFunds is returned when a monetary amount is negative.
	ErrInvalidFunds = errors.New("invalid funds")

	// ErrIncorrectPeriod is returned when a period has a missing bound or
	// starts after it ends.
	ErrIncorrectPeriod = errors.New("incorrect period")

	// ErrTransactionRejected is the base rejection error for a transaction
	// that cannot be committed.
	ErrTransactionRejected = errors.New("transaction rejected")

	// ErrInsufficientFunds is returned when a debit exceeds the account balance.
	// It matches ErrTransactionRejected under errors.Is.
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrTransactionRejected)

	// ErrCurrencyRequired is returned when a transaction carries no currency.
	// It matches ErrTransactionRejected under errors.Is.
	ErrCurrencyRequired = fmt.Errorf("%w: currency is required", ErrTransactionRejected)

	// ErrDuplicateTransactionID is returned when a transaction id is already
	// present in the transaction store.
	ErrDuplicateTransactionID = errors.New("transaction id is not unique, choose another")

	// ErrStorage wraps any backend failure surfaced by a store. The
	// underlying cause is attached with %w and can be unwrapped.
	ErrStorage = errors.New("storage failure")

	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound is returned when a transaction cannot be found.
	ErrTransactionNotFound = errors.New("transaction not found")
)
