// Package infra wires the storage backend: opening handles for the
// connection pool and migrating the schema.
package infra

import (
	"errors"
	"fmt"

	accountrepo "github.com/dkarpov/playerledger/infra/repository/account"
	currencyrepo "github.com/dkarpov/playerledger/infra/repository/currency"
	playerrepo "github.com/dkarpov/playerledger/infra/repository/player"
	transactionrepo "github.com/dkarpov/playerledger/infra/repository/transaction"
	"github.com/dkarpov/playerledger/pkg/config"
	"github.com/dkarpov/playerledger/pkg/pool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a pool.OpenFunc that opens one backend handle per call
// using the configured URL and credentials.
func Open(cnf config.DBConfig, appEnv string) pool.OpenFunc {
	return func() (*gorm.DB, error) {
		if cnf.Url == "" {
			return nil, errors.New("DATABASE_URL is not set")
		}

		logMode := logger.Silent
		if appEnv == "development" {
			logMode = logger.Info
		}

		db, err := gorm.Open(postgres.Open(cnf.Url), &gorm.Config{
			Logger:                 logger.Default.LogMode(logMode),
			SkipDefaultTransaction: true,
		})
		if err != nil {
			return nil, fmt.Errorf("open storage handle: %w", err)
		}
		// Each pooled handle is one dedicated connection; the pool does
		// the multiplexing, not database/sql.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return db, nil
	}
}

// Migrate creates or updates the schema for all persisted entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&playerrepo.Player{},
		&accountrepo.Account{},
		&transactionrepo.Transaction{},
		&currencyrepo.Currency{},
	)
}
