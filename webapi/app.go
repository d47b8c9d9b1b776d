package webapi

import (
	"strings"

	"github.com/dkarpov/playerledger/app"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New builds the Fiber application with middleware and all routes
// registered against the dependency graph.
func New(deps *app.Deps) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName: "playerledger",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return ProblemDetailsJSON(c, fe.Code, fe.Message, fe.Message)
			}
			return ProblemDetailsJSON(c, fiber.StatusInternalServerError, "Internal Server Error", err.Error())
		},
	})

	fiberApp.Use(limiter.New(limiter.Config{
		Max:        deps.Config.RateLimit.MaxRequests,
		Expiration: deps.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			// Prefer the proxy-reported client IP when present.
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return ProblemDetailsJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
		},
	}))
	fiberApp.Use(recover.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(Response{Status: fiber.StatusOK, Message: "playerledger is up"})
	})

	AuthRoutes(fiberApp, deps.PlayerS, deps.AuthS)
	AccountRoutes(fiberApp, deps.Engine, deps.PlayerS, deps.AuthS, deps.Bus, deps.Config)
	CurrencyRoutes(fiberApp, deps.Registry)
	return fiberApp
}
