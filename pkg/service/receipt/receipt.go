// Package receipt renders text statements from engine output.
package receipt

import (
	"fmt"
	"strings"
	"time"

	domain "github.com/dkarpov/playerledger/pkg/domain/ledger"
)

const lineWidth = 52

// Statement renders a period statement for an account: a header, one line
// per transaction in store order, and the closing balance.
func Statement(account *domain.Account, txs []*domain.Transaction, from, to time.Time) string {
	var b strings.Builder

	rule := strings.Repeat("-", lineWidth)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "STATEMENT  account %d (%s)\n", account.ID, account.Currency())
	fmt.Fprintf(&b, "period     %s .. %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
	fmt.Fprintln(&b, rule)

	if len(txs) == 0 {
		fmt.Fprintln(&b, "no transactions in period")
	}
	for _, tx := range txs {
		fmt.Fprintf(&b, "%s  #%-6d %-6s %14s\n",
			tx.CreatedAt.Format("2006-01-02 15:04"),
			tx.ID,
			tx.Type,
			tx.Amount,
		)
	}

	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "balance    %s\n", account.Balance)
	return b.String()
}

// Confirmation renders a one-transaction receipt after a commit.
func Confirmation(tx *domain.Transaction, account *domain.Account) string {
	var b strings.Builder
	rule := strings.Repeat("-", lineWidth)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "RECEIPT    transaction %d\n", tx.ID)
	fmt.Fprintf(&b, "date       %s\n", tx.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "account    %d\n", tx.AccountID)
	fmt.Fprintf(&b, "%-10s %s\n", strings.ToLower(string(tx.Type)), tx.Amount)
	fmt.Fprintf(&b, "balance    %s\n", account.Balance)
	fmt.Fprintln(&b, rule)
	return b.String()
}
