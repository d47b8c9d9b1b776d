package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database record backing a ledger transaction.
// Rows are append-only: there is no update path, only insert and delete.
type Transaction struct {
	ID        int64           `gorm:"primaryKey"`
	Type      string          `gorm:"type:varchar(10);not null"`
	Amount    decimal.Decimal `gorm:"type:numeric;not null"`
	Currency  string          `gorm:"type:varchar(3);not null"`
	AccountID int64           `gorm:"index"`
	CreatedAt time.Time       `gorm:"index"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
