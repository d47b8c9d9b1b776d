package currency

import "github.com/shopspring/decimal"

// Currency is the database record backing a registered currency.
type Currency struct {
	ID   int64           `gorm:"primaryKey"`
	Code string          `gorm:"type:varchar(3);uniqueIndex;not null"`
	Rate decimal.Decimal `gorm:"type:numeric;not null"`
}

// TableName specifies the table name for the Currency model.
func (Currency) TableName() string {
	return "currencies"
}
