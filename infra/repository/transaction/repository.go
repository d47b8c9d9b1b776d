// Package transaction persists ledger transactions through pooled storage
// handles.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkarpov/playerledger/pkg/currency"
	"github.com/dkarpov/playerledger/pkg/domain/ledger"
	"github.com/dkarpov/playerledger/pkg/money"
	"github.com/dkarpov/playerledger/pkg/pool"
	repo "github.com/dkarpov/playerledger/pkg/repository"
	"gorm.io/gorm"
)

type repository struct {
	pool   *pool.Pool
	logger *slog.Logger
}

// New creates a transaction repository backed by the connection pool.
func New(p *pool.Pool, logger *slog.Logger) repo.TransactionRepository {
	return &repository{pool: p, logger: logger.With("repo", "transaction")}
}

// Get implements repository.TransactionRepository.
func (r *repository) Get(ctx context.Context, id int64) (*ledger.Transaction, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	var m Transaction
	if err := h.DB().WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	return mapModelToDomain(&m)
}

// Create implements repository.TransactionRepository.
func (r *repository) Create(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	m := mapDomainToModel(tx)
	if err := h.DB().WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	r.logger.Info("transaction recorded",
		"transaction_id", m.ID,
		"account_id", m.AccountID,
		"type", m.Type,
	)
	return mapModelToDomain(m)
}

// Delete implements repository.TransactionRepository. A repeated delete
// returns false with no error.
func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	res := h.DB().WithContext(ctx).Delete(&Transaction{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("%w: %w", ledger.ErrStorage, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListByAccount implements repository.TransactionRepository. Insertion
// order, not commit-time order: rows come back ordered by id.
func (r *repository) ListByAccount(ctx context.Context, accountID int64) ([]*ledger.Transaction, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	var models []Transaction
	err = h.DB().WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	return mapModelsToDomain(models)
}

// ListByPeriod implements repository.TransactionRepository. Both bounds
// are exclusive: only rows with created_at strictly between from and to
// are returned.
func (r *repository) ListByPeriod(ctx context.Context, from, to time.Time, accountID int64) ([]*ledger.Transaction, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	var models []Transaction
	err = h.DB().WithContext(ctx).
		Where("account_id = ? AND created_at > ? AND created_at < ?", accountID, from, to).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	return mapModelsToDomain(models)
}

func mapDomainToModel(tx *ledger.Transaction) *Transaction {
	return &Transaction{
		ID:        tx.ID,
		Type:      string(tx.Type),
		Amount:    tx.Amount.Amount(),
		Currency:  string(tx.Amount.Currency()),
		AccountID: tx.AccountID,
		CreatedAt: tx.CreatedAt,
	}
}

func mapModelToDomain(m *Transaction) (*ledger.Transaction, error) {
	amount, err := money.New(m.Amount, currency.Code(m.Currency))
	if err != nil {
		return nil, err
	}
	return ledger.NewTransactionFromData(
		m.ID,
		ledger.Type(m.Type),
		amount,
		m.AccountID,
		m.CreatedAt,
	), nil
}

func mapModelsToDomain(models []Transaction) ([]*ledger.Transaction, error) {
	txs := make([]*ledger.Transaction, 0, len(models))
	for i := range models {
		tx, err := mapModelToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
