package player

import "time"

// Player is the database record backing a registered player.
type Player struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

// TableName specifies the table name for the Player model.
func (Player) TableName() string {
	return "players"
}
