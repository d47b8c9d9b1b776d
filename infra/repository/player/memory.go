package player

import (
	"context"
	"sync"

	domain "github.com/dkarpov/playerledger/pkg/domain/player"
	repo "github.com/dkarpov/playerledger/pkg/repository"
)

// MemoryRepository implements the player repository with in-memory storage.
type MemoryRepository struct {
	mu      sync.RWMutex
	players map[int64]*domain.Player
	nextID  int64
}

// NewMemory creates an empty in-memory player repository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{players: make(map[int64]*domain.Player), nextID: 1}
}

var _ repo.PlayerRepository = (*MemoryRepository)(nil)

// Get retrieves a player by id.
func (r *MemoryRepository) Get(ctx context.Context, id int64) (*domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

// GetByUsername retrieves a player by username.
func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.players {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPlayerNotFound
}

// Create stores the player, assigning an id when none is set.
func (r *MemoryRepository) Create(ctx context.Context, p *domain.Player) (*domain.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	if cp.ID == 0 {
		cp.ID = r.nextID
	}
	if cp.ID >= r.nextID {
		r.nextID = cp.ID + 1
	}
	r.players[cp.ID] = &cp
	out := cp
	return &out, nil
}

// Delete removes the player, reporting whether it existed.
func (r *MemoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[id]; !ok {
		return false, nil
	}
	delete(r.players, id)
	return true, nil
}
