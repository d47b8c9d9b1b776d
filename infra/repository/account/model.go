package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the database record backing a ledger account.
type Account struct {
	ID        int64           `gorm:"primaryKey"`
	PlayerID  int64           `gorm:"index"`
	Balance   decimal.Decimal `gorm:"type:numeric;not null"`
	Currency  string          `gorm:"type:varchar(3);not null;default:'USD'"`
	CreatedAt time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}
