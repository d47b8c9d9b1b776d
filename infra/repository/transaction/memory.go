package transaction

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dkarpov/playerledger/pkg/domain/ledger"
	repo "github.com/dkarpov/playerledger/pkg/repository"
)

// MemoryRepository implements the transaction repository with in-memory
// storage. Transactions are kept in insertion order, matching the
// ordering contract of the database implementation.
type MemoryRepository struct {
	mu     sync.RWMutex
	order  []int64
	byID   map[int64]*ledger.Transaction
	nextID int64
}

// NewMemory creates an empty in-memory transaction repository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{byID: make(map[int64]*ledger.Transaction), nextID: 1}
}

var _ repo.TransactionRepository = (*MemoryRepository)(nil)

// Get retrieves a transaction by id.
func (r *MemoryRepository) Get(ctx context.Context, id int64) (*ledger.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.byID[id]
	if !ok {
		return nil, ledger.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

// Create stores the transaction, assigning an id when none is set. An
// already-used id fails like the database primary key would.
func (r *MemoryRepository) Create(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *tx
	if cp.ID == 0 {
		cp.ID = r.nextID
	}
	if _, ok := r.byID[cp.ID]; ok {
		return nil, fmt.Errorf("%w: duplicate transaction id %d", ledger.ErrStorage, cp.ID)
	}
	if cp.ID >= r.nextID {
		r.nextID = cp.ID + 1
	}
	r.byID[cp.ID] = &cp
	r.order = append(r.order, cp.ID)
	out := cp
	return &out, nil
}

// Delete removes the transaction, reporting whether it existed.
func (r *MemoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// ListByAccount returns the account's transactions in insertion order.
func (r *MemoryRepository) ListByAccount(ctx context.Context, accountID int64) ([]*ledger.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var txs []*ledger.Transaction
	for _, id := range r.order {
		tx := r.byID[id]
		if tx.AccountID != accountID {
			continue
		}
		cp := *tx
		txs = append(txs, &cp)
	}
	return txs, nil
}

// ListByPeriod returns the account's transactions with CreatedAt strictly
// between from and to, in insertion order.
func (r *MemoryRepository) ListByPeriod(ctx context.Context, from, to time.Time, accountID int64) ([]*ledger.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var txs []*ledger.Transaction
	for _, id := range r.order {
		tx := r.byID[id]
		if tx.AccountID != accountID {
			continue
		}
		if !tx.CreatedAt.After(from) || !tx.CreatedAt.Before(to) {
			continue
		}
		cp := *tx
		txs = append(txs, &cp)
	}
	return txs, nil
}
