// Package auth issues and inspects JWTs for the HTTP surface. Role checks
// and authorization policy live with the callers, not here.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkarpov/playerledger/pkg/config"
	domain "github.com/dkarpov/playerledger/pkg/domain/player"
	"github.com/dkarpov/playerledger/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
)

// Service authenticates players and issues tokens.
type Service struct {
	players repository.PlayerRepository
	cfg     config.JwtConfig
	logger  *slog.Logger
}

// NewService creates an auth service.
func NewService(players repository.PlayerRepository, cfg config.JwtConfig, logger *slog.Logger) *Service {
	return &Service{players: players, cfg: cfg, logger: logger.With("service", "auth")}
}

// Login verifies the credentials and returns the player.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.Player, error) {
	p, err := s.players.GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.ErrPlayerUnauthorized
	}
	if !p.CheckPassword(password) {
		s.logger.Warn("failed login attempt", "username", username)
		return nil, domain.ErrPlayerUnauthorized
	}
	return p, nil
}

// GenerateToken issues a signed JWT for the player.
func (s *Service) GenerateToken(p *domain.Player) (string, error) {
	claims := jwt.MapClaims{
		"player_id": p.ID,
		"username":  p.Username,
		"exp":       time.Now().Add(s.cfg.Expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// CurrentPlayerID extracts the player id from a verified token.
func (s *Service) CurrentPlayerID(token *jwt.Token) (int64, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, domain.ErrPlayerUnauthorized
	}
	raw, ok := claims["player_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: malformed player_id claim", domain.ErrPlayerUnauthorized)
	}
	return int64(raw), nil
}
