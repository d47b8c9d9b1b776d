// Package player holds the player entity owning a ledger account.
package player

import (
	"errors"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPlayerNotFound is returned when a player cannot be found.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrPlayerUnauthorized is returned when credentials do not match.
	ErrPlayerUnauthorized = errors.New("player unauthorized")
)

// Player represents a registered player. Each player owns a single
// currency account, created at registration.
type Player struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewPlayer creates a Player with a bcrypt-hashed password.
func NewPlayer(username, email, password string) (*Player, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.New("invalid email address")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Player{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// NewPlayerFromData hydrates a Player from raw data (store hydration only).
func NewPlayerFromData(id int64, username, email, passwordHash string, created time.Time) *Player {
	return &Player{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    created,
	}
}

// CheckPassword reports whether password matches the stored hash.
func (p *Player) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}
