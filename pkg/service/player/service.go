// Package player provides registration and lifecycle for players and
// their accounts.
package player

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dkarpov/playerledger/pkg/currency"
	"github.com/dkarpov/playerledger/pkg/domain/ledger"
	domain "github.com/dkarpov/playerledger/pkg/domain/player"
	"github.com/dkarpov/playerledger/pkg/repository"
)

// Service manages players. Registration creates the player's single
// currency account; deletion cascades to the account and its transactions.
type Service struct {
	players  repository.PlayerRepository
	accounts repository.AccountRepository
	txs      repository.TransactionRepository
	registry *currency.Registry
	logger   *slog.Logger
}

// NewService creates a player service.
func NewService(
	players repository.PlayerRepository,
	accounts repository.AccountRepository,
	txs repository.TransactionRepository,
	registry *currency.Registry,
	logger *slog.Logger,
) *Service {
	return &Service{
		players:  players,
		accounts: accounts,
		txs:      txs,
		registry: registry,
		logger:   logger.With("service", "player"),
	}
}

// Register creates a player and their account in the given currency.
func (s *Service) Register(
	ctx context.Context,
	username, email, password string,
	code currency.Code,
) (*domain.Player, *ledger.Account, error) {
	if code == "" {
		code = currency.DefaultCurrency
	}
	if !s.registry.IsSupported(code) {
		return nil, nil, currency.ErrUnsupportedCurrency
	}

	p, err := domain.NewPlayer(username, email, password)
	if err != nil {
		return nil, nil, err
	}
	p, err = s.players.Create(ctx, p)
	if err != nil {
		return nil, nil, err
	}

	acc, err := ledger.New().WithPlayerID(p.ID).WithCurrency(code).Build()
	if err != nil {
		return nil, nil, err
	}
	acc, err = s.accounts.Create(ctx, acc)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("player registered", "player_id", p.ID, "account_id", acc.ID, "currency", code)
	return p, acc, nil
}

// Get returns the player by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Player, error) {
	return s.players.Get(ctx, id)
}

// Account returns the player's account.
func (s *Service) Account(ctx context.Context, playerID int64) (*ledger.Account, error) {
	return s.accounts.GetByPlayer(ctx, playerID)
}

// Delete removes the player, their account and all of its transactions.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	acc, err := s.accounts.GetByPlayer(ctx, id)
	switch {
	case err == nil:
		txs, err := s.txs.ListByAccount(ctx, acc.ID)
		if err != nil {
			return false, err
		}
		for _, tx := range txs {
			if _, err := s.txs.Delete(ctx, tx.ID); err != nil {
				return false, err
			}
		}
		if _, err := s.accounts.Delete(ctx, acc.ID); err != nil {
			return false, err
		}
	case errors.Is(err, ledger.ErrAccountNotFound):
		// Player without an account; nothing to cascade.
	default:
		return false, err
	}
	return s.players.Delete(ctx, id)
}
