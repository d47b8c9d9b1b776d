package webapi

import (
	"github.com/dkarpov/playerledger/pkg/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JwtProtected guards a route with bearer-token authentication. The
// verified token lands in c.Locals("player").
func JwtProtected(cfg config.JwtConfig) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ContextKey: "player",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return ProblemDetailsJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		},
	})
}
