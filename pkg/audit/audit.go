// Package audit appends human-readable audit lines for committed
// transactions. The auditor is not invoked by the engine itself: callers
// publish a TransactionCommitted event after a successful commit and the
// auditor consumes it from the bus.
package audit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dkarpov/playerledger/pkg/domain/ledger"
	"github.com/dkarpov/playerledger/pkg/eventbus"
)

// Auditor writes append-only audit lines to a sink.
type Auditor struct {
	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	logger *slog.Logger
}

// New creates an auditor writing to out.
func New(out io.Writer, logger *slog.Logger) *Auditor {
	return &Auditor{out: out, logger: logger.With("component", "audit")}
}

// Open creates an auditor appending to the file at path.
func Open(path string, logger *slog.Logger) (*Auditor, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit sink: %w", err)
	}
	a := New(f, logger)
	a.closer = f
	return a, nil
}

// Append writes one line to the sink.
func (a *Auditor) Append(line string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := fmt.Fprintln(a.out, line); err != nil {
		a.logger.Error("audit append failed", "error", err)
	}
}

// Close releases the underlying sink if the auditor owns one.
func (a *Auditor) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Handler returns the bus handler recording committed transactions.
func (a *Auditor) Handler() eventbus.HandlerFunc {
	return func(ctx context.Context, event eventbus.Event) {
		committed, ok := event.(ledger.TransactionCommitted)
		if !ok {
			return
		}
		tx := committed.Transaction
		a.Append(fmt.Sprintf("%s %s tx=%d account=%d %s %s balance=%s",
			committed.CommittedAt.Format(time.RFC3339),
			committed.EventID,
			tx.ID,
			tx.AccountID,
			tx.Type,
			tx.Amount,
			committed.Account.Balance,
		))
	}
}

// Register subscribes the auditor on the bus for commit events.
func (a *Auditor) Register(bus eventbus.Bus) {
	bus.Subscribe(ledger.TransactionCommitted{}.Type(), a.Handler())
}
