// Package player persists players through pooled storage handles.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dkarpov/playerledger/pkg/domain/ledger"
	domain "github.com/dkarpov/playerledger/pkg/domain/player"
	"github.com/dkarpov/playerledger/pkg/pool"
	repo "github.com/dkarpov/playerledger/pkg/repository"
	"gorm.io/gorm"
)

type repository struct {
	pool   *pool.Pool
	logger *slog.Logger
}

// New creates a player repository backed by the connection pool.
func New(p *pool.Pool, logger *slog.Logger) repo.PlayerRepository {
	return &repository{pool: p, logger: logger.With("repo", "player")}
}

// Get implements repository.PlayerRepository.
func (r *repository) Get(ctx context.Context, id int64) (*domain.Player, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	var m Player
	if err := h.DB().WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	return mapModelToDomain(&m), nil
}

// GetByUsername implements repository.PlayerRepository.
func (r *repository) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	var m Player
	if err := h.DB().WithContext(ctx).First(&m, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	return mapModelToDomain(&m), nil
}

// Create implements repository.PlayerRepository.
func (r *repository) Create(ctx context.Context, p *domain.Player) (*domain.Player, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	m := &Player{
		ID:           p.ID,
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		CreatedAt:    p.CreatedAt,
	}
	if err := h.DB().WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	r.logger.Info("player registered", "player_id", m.ID, "username", m.Username)
	return mapModelToDomain(m), nil
}

// Delete implements repository.PlayerRepository.
func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	res := h.DB().WithContext(ctx).Delete(&Player{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("%w: %w", ledger.ErrStorage, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func mapModelToDomain(m *Player) *domain.Player {
	return domain.NewPlayerFromData(m.ID, m.Username, m.Email, m.PasswordHash, m.CreatedAt)
}
