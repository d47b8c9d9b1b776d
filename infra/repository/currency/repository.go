// Package currency persists registered currencies through pooled storage
// handles.
package currency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domain "github.com/dkarpov/playerledger/pkg/currency"
	"github.com/dkarpov/playerledger/pkg/domain/ledger"
	"github.com/dkarpov/playerledger/pkg/pool"
	repo "github.com/dkarpov/playerledger/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	pool   *pool.Pool
	logger *slog.Logger
}

// New creates a currency repository backed by the connection pool.
func New(p *pool.Pool, logger *slog.Logger) repo.CurrencyRepository {
	return &repository{pool: p, logger: logger.With("repo", "currency")}
}

// GetByCode implements repository.CurrencyRepository.
func (r *repository) GetByCode(ctx context.Context, code domain.Code) (domain.Currency, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return domain.Currency{}, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	var m Currency
	if err := h.DB().WithContext(ctx).First(&m, "code = ?", string(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Currency{}, domain.ErrUnsupportedCurrency
		}
		return domain.Currency{}, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	return mapModelToDomain(&m), nil
}

// List implements repository.CurrencyRepository.
func (r *repository) List(ctx context.Context) ([]domain.Currency, error) {
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	var models []Currency
	if err := h.DB().WithContext(ctx).Order("code").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	currencies := make([]domain.Currency, 0, len(models))
	for i := range models {
		currencies = append(currencies, mapModelToDomain(&models[i]))
	}
	return currencies, nil
}

// Upsert implements repository.CurrencyRepository: insert by unique code,
// update the rate on conflict.
func (r *repository) Upsert(ctx context.Context, c domain.Currency) (domain.Currency, error) {
	if !domain.IsValidFormat(string(c.Code)) {
		return domain.Currency{}, domain.ErrInvalidCurrencyCode
	}
	h, err := r.pool.Acquire(ctx)
	if err != nil {
		return domain.Currency{}, err
	}
	defer r.pool.Release(h) //nolint:errcheck

	m := &Currency{ID: c.ID, Code: string(c.Code), Rate: c.Rate}
	err = h.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate"}),
		}).
		Create(m).Error
	if err != nil {
		return domain.Currency{}, fmt.Errorf("%w: %w", ledger.ErrStorage, err)
	}
	return mapModelToDomain(m), nil
}

func mapModelToDomain(m *Currency) domain.Currency {
	return domain.Currency{ID: m.ID, Code: domain.Code(m.Code), Rate: m.Rate}
}
