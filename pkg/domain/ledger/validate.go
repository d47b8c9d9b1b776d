package ledger

import (
	"fmt"
	"time"

	"github.com/dkarpov/playerledger/pkg/currency"
	"github.com/dkarpov/playerledger/pkg/money"
)

// ValidateID fails with ErrInvalidID if id is negative. Zero is a valid id.
func ValidateID(id int64) error {
	if id < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

// ValidateAmount fails with ErrInvalidFunds if amount is negative.
func ValidateAmount(amount money.Money) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidFunds, amount)
	}
	return nil
}

// ValidateTransactionFunds checks the transaction amount and, for debits,
// that the account balance covers it. The balance check requires matching
// currencies; a mismatch is a rejection.
func ValidateTransactionFunds(tx *Transaction, account *Account) error {
	if err := ValidateAmount(tx.Amount); err != nil {
		return err
	}
	if tx.Type != Debit {
		return nil
	}
	if !account.Balance.IsSameCurrency(tx.Amount) {
		return fmt.Errorf("%w: %v", ErrTransactionRejected, money.ErrCurrencyMismatch)
	}
	short, err := account.Balance.LessThan(tx.Amount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransactionRejected, err)
	}
	if short {
		return ErrInsufficientFunds
	}
	return nil
}

// ValidateTransactionCurrency fails with a rejection if the currency is empty.
func ValidateTransactionCurrency(code currency.Code) error {
	if code == "" {
		return ErrCurrencyRequired
	}
	return nil
}

// ValidatePeriod fails with ErrIncorrectPeriod if either bound is zero or
// from is strictly after to.
func ValidatePeriod(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: missing bound", ErrIncorrectPeriod)
	}
	if from.After(to) {
		return fmt.Errorf("%w: %s is after %s", ErrIncorrectPeriod,
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return nil
}
