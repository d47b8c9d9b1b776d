package webapi

import (
	"time"

	"github.com/dkarpov/playerledger/pkg/currency"
	authsvc "github.com/dkarpov/playerledger/pkg/service/auth"
	playersvc "github.com/dkarpov/playerledger/pkg/service/player"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// RegisterRequest is the payload for player registration. Currency
// defaults to USD when omitted.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Currency string `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// LoginRequest is the payload for token issuance.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PlayerDTO is the API representation of a registered player and their
// account.
type PlayerDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AccountID int64  `json:"account_id"`
	Currency  string `json:"currency"`
	CreatedAt string `json:"created_at"`
}

// AuthRoutes registers the public registration and login endpoints.
func AuthRoutes(app *fiber.App, players *playersvc.Service, auth *authsvc.Service) {
	app.Post("/register", RegisterPlayer(players))
	app.Post("/login", Login(auth))
}

// RegisterPlayer returns the handler creating a player together with a
// zero-balance account in the requested currency.
func RegisterPlayer(players *playersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[RegisterRequest](c)
		if err != nil {
			return nil
		}
		player, account, err := players.Register(
			c.UserContext(),
			input.Username, input.Email, input.Password,
			currency.Code(input.Currency),
		)
		if err != nil {
			log.Errorf("registration failed for %s: %v", input.Username, err)
			return ProblemDetailsJSON(c, ErrorToStatusCode(err), "Registration failed", err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "Player registered",
			Data: PlayerDTO{
				ID:        player.ID,
				Username:  player.Username,
				Email:     player.Email,
				AccountID: account.ID,
				Currency:  string(account.Currency()),
				CreatedAt: player.CreatedAt.Format(time.RFC3339),
			},
		})
	}
}

// Login returns the handler exchanging credentials for a bearer token.
func Login(auth *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[LoginRequest](c)
		if err != nil {
			return nil
		}
		player, err := auth.Login(c.UserContext(), input.Username, input.Password)
		if err != nil {
			return ProblemDetailsJSON(c, ErrorToStatusCode(err), "Login failed", "invalid credentials")
		}
		token, err := auth.GenerateToken(player)
		if err != nil {
			log.Errorf("token generation failed: %v", err)
			return ProblemDetailsJSON(c, fiber.StatusInternalServerError, "Login failed", err.Error())
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Logged in",
			Data:    fiber.Map{"token": token},
		})
	}
}
