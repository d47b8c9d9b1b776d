package account

import (
	"context"
	"sort"
	"sync"

	"github.com/dkarpov/playerledger/pkg/domain/ledger"
	repo "github.com/dkarpov/playerledger/pkg/repository"
)

// MemoryRepository implements the account repository with in-memory
// storage. Used by tests and the console application's demo mode.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*ledger.Account
	nextID   int64
}

// NewMemory creates an empty in-memory account repository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[int64]*ledger.Account), nextID: 1}
}

var _ repo.AccountRepository = (*MemoryRepository)(nil)

// Get retrieves an account by id.
func (r *MemoryRepository) Get(ctx context.Context, id int64) (*ledger.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

// GetByPlayer retrieves the player's account; the lowest id wins.
func (r *MemoryRepository) GetByPlayer(ctx context.Context, playerID int64) (*ledger.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *ledger.Account
	for _, a := range r.accounts {
		if a.PlayerID != playerID {
			continue
		}
		if found == nil || a.ID < found.ID {
			found = a
		}
	}
	if found == nil {
		return nil, ledger.ErrAccountNotFound
	}
	cp := *found
	return &cp, nil
}

// List returns all accounts ordered by id.
func (r *MemoryRepository) List(ctx context.Context) ([]*ledger.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts := make([]*ledger.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		cp := *a
		accounts = append(accounts, &cp)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// Create stores the account, assigning an id when none is set.
func (r *MemoryRepository) Create(ctx context.Context, a *ledger.Account) (*ledger.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	if cp.ID == 0 {
		cp.ID = r.nextID
	}
	if cp.ID >= r.nextID {
		r.nextID = cp.ID + 1
	}
	r.accounts[cp.ID] = &cp
	out := cp
	return &out, nil
}

// Update replaces the stored account state.
func (r *MemoryRepository) Update(ctx context.Context, a *ledger.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.ID]; !ok {
		return ledger.ErrAccountNotFound
	}
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

// Delete removes the account, reporting whether it existed.
func (r *MemoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return false, nil
	}
	delete(r.accounts, id)
	return true, nil
}
