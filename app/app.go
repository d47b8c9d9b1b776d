// Package app wires configuration, storage, the connection pool and the
// services into one dependency graph shared by the server and CLI
// binaries.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dkarpov/playerledger/infra"
	infrabus "github.com/dkarpov/playerledger/infra/eventbus"
	accountrepo "github.com/dkarpov/playerledger/infra/repository/account"
	currencyrepo "github.com/dkarpov/playerledger/infra/repository/currency"
	playerrepo "github.com/dkarpov/playerledger/infra/repository/player"
	transactionrepo "github.com/dkarpov/playerledger/infra/repository/transaction"
	"github.com/dkarpov/playerledger/pkg/audit"
	"github.com/dkarpov/playerledger/pkg/config"
	"github.com/dkarpov/playerledger/pkg/currency"
	"github.com/dkarpov/playerledger/pkg/eventbus"
	"github.com/dkarpov/playerledger/pkg/pool"
	"github.com/dkarpov/playerledger/pkg/repository"
	authsvc "github.com/dkarpov/playerledger/pkg/service/auth"
	ledgersvc "github.com/dkarpov/playerledger/pkg/service/ledger"
	playersvc "github.com/dkarpov/playerledger/pkg/service/player"
)

// Deps holds everything the transport layers need.
type Deps struct {
	Config   *config.AppConfig
	Logger   *slog.Logger
	Pool     *pool.Pool
	Registry *currency.Registry
	Bus      eventbus.Bus
	Auditor  *audit.Auditor

	Accounts     repository.AccountRepository
	Transactions repository.TransactionRepository
	Players      repository.PlayerRepository
	Currencies   repository.CurrencyRepository

	Engine  *ledgersvc.Engine
	PlayerS *playersvc.Service
	AuthS   *authsvc.Service
}

// New builds the full dependency graph backed by the database pool.
func New(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*Deps, error) {
	open := infra.Open(cfg.DB, cfg.Env)

	// Migrate through a throwaway connection before the pool comes up.
	db, err := open()
	if err != nil {
		return nil, fmt.Errorf("opening migration connection: %w", err)
	}
	if err = infra.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	p, err := pool.New(open, cfg.Pool.Size, cfg.Pool.ReleaseTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("starting connection pool: %w", err)
	}

	deps := &Deps{
		Config:       cfg,
		Logger:       logger,
		Pool:         p,
		Registry:     currency.NewRegistry(),
		Accounts:     accountrepo.New(p, logger),
		Transactions: transactionrepo.New(p, logger),
		Players:      playerrepo.New(p, logger),
		Currencies:   currencyrepo.New(p, logger),
	}
	if err := deps.seedCurrencies(ctx); err != nil {
		p.Shutdown()
		return nil, err
	}
	deps.buildServices()

	auditor, err := audit.Open(cfg.AuditPath, logger)
	if err != nil {
		p.Shutdown()
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	deps.Auditor = auditor
	auditor.Register(deps.Bus)
	return deps, nil
}

// NewInMemory builds the dependency graph on in-memory stores. Used by
// the CLI and by tests that do not want a database.
func NewInMemory(cfg *config.AppConfig, logger *slog.Logger) *Deps {
	deps := &Deps{
		Config:       cfg,
		Logger:       logger,
		Registry:     currency.NewRegistry(),
		Accounts:     accountrepo.NewMemory(),
		Transactions: transactionrepo.NewMemory(),
		Players:      playerrepo.NewMemory(),
	}
	deps.buildServices()
	deps.Auditor = audit.New(io.Discard, logger)
	deps.Auditor.Register(deps.Bus)
	return deps
}

func (d *Deps) buildServices() {
	d.Bus = infrabus.NewMemory(d.Logger)
	d.Engine = ledgersvc.NewEngine(d.Accounts, d.Transactions, d.Logger)
	d.PlayerS = playersvc.NewService(d.Players, d.Accounts, d.Transactions, d.Registry, d.Logger)
	d.AuthS = authsvc.NewService(d.Players, d.Config.Jwt, d.Logger)
}

// seedCurrencies pushes the built-in registry into the currencies table
// so rates survive restarts and can be edited out of band.
func (d *Deps) seedCurrencies(ctx context.Context) error {
	for _, code := range d.Registry.Codes() {
		cur, err := d.Registry.Get(code)
		if err != nil {
			return err
		}
		if _, err := d.Currencies.Upsert(ctx, cur); err != nil {
			return fmt.Errorf("seeding currency %s: %w", code, err)
		}
	}
	return nil
}

// Close releases the pool and the audit sink.
func (d *Deps) Close() {
	if d.Auditor != nil {
		if err := d.Auditor.Close(); err != nil {
			d.Logger.Error("closing auditor", "error", err)
		}
	}
	if d.Pool != nil {
		d.Pool.Shutdown()
	}
}
