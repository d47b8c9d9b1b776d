// Package account persists ledger accounts through pooled storage handles.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dkarpov/playerledger/pkg/currency"
	"github.com/dkarpov/playerledger/pkg/domain/ledger"
	"github.com/dkarpov/playerledger/pkg/pool"
	repo "github.com/dkarpov/playerledger/pkg/repository"
	"gorm.io/gorm"
)

type repository struct {
	pool   *pool.Pool
	logger *slog.Logger
}

// New creates an account repository backed by the connection pool.
func New(p *pool.Pool, logger *slog.Logger) repo.AccountRepository {
	return &repository{pool: p, logger: logger.With("repo", "account")}
}

// Get implements repository.AccountRepository.
func (r *repository) Get(ctx context.Context, id int64) (*ledger.Account, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	var m Account
	if err := h.DB().WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	return mapModelToDomain(&m)
}

// GetByPlayer implements repository.AccountRepository. The lowest account
// id wins when a player somehow owns more than one account.
func (r *repository) GetByPlayer(ctx context.Context, playerID int64) (*ledger.Account, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	var m Account
	err = h.DB().WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("id").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	return mapModelToDomain(&m)
}

// List implements repository.AccountRepository.
func (r *repository) List(ctx context.Context) ([]*ledger.Account, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	var models []Account
	if err := h.DB().WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	accounts := make([]*ledger.Account, 0, len(models))
	for i := range models {
		a, err := mapModelToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// Create implements repository.AccountRepository.
func (r *repository) Create(ctx context.Context, a *ledger.Account) (*ledger.Account, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	m := mapDomainToModel(a)
	if err := h.DB().WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	r.logger.Info("account created", "account_id", m.ID, "player_id", m.PlayerID)
	return mapModelToDomain(m)
}

// Update implements repository.AccountRepository. Only the balance is
// mutable; everything else on an account is immutable after creation.
func (r *repository) Update(ctx context.Context, a *ledger.Account) error {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer r.pool.Release(h) //nolint:errcheck

	err = h.DB().WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", a.ID).
		Update("balance", a.Balance.Amount()).Error
	if err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	return nil
}

// Delete implements repository.AccountRepository.
func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	res := h.DB().WithContext(ctx).Delete(&Account{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("%w: %w", ledger.ErrStorage, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func mapDomainToModel(a *ledger.Account) *Account {
	return &Account{
		ID:        a.ID,
		PlayerID:  a.PlayerID,
		Balance:   a.Balance.Amount(),
		Currency:  string(a.Currency()),
		CreatedAt: a.CreatedAt,
	}
}

func mapModelToDomain(m *Account) (*ledger.Account, error) {
	return ledger.New().
		WithID(m.ID).
		WithPlayerID(m.PlayerID).
		WithBalance(m.Balance).
		WithCurrency(currency.Code(m.Currency)).
		WithCreatedAt(m.CreatedAt).
		Build()
}
