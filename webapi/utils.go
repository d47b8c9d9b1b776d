package webapi

import (
	"errors"

	"github.com/dkarpov/playerledger/pkg/currency"
	"github.com/dkarpov/playerledger/pkg/domain/ledger"
	"github.com/dkarpov/playerledger/pkg/domain/player"
	"github.com/dkarpov/playerledger/pkg/pool"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// ProblemDetailsJSON writes an RFC 9457 problem response.
func ProblemDetailsJSON(c *fiber.Ctx, status int, title, detail string) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.OriginalURL(),
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(status).JSON(pd)
}

// ErrorToStatusCode maps domain errors to HTTP status codes. Callers never
// need to parse error messages: the kind decides the presentation.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound),
		errors.Is(err, player.ErrPlayerNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateTransactionID):
		return fiber.StatusConflict
	case errors.Is(err, ledger.ErrTransactionRejected):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrInvalidID),
		errors.Is(err, ledger.ErrInvalidFunds),
		errors.Is(err, ledger.ErrIncorrectPeriod),
		errors.Is(err, currency.ErrInvalidCurrencyCode),
		errors.Is(err, currency.ErrUnsupportedCurrency):
		return fiber.StatusBadRequest
	case errors.Is(err, player.ErrPlayerUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, pool.ErrPoolExhausted):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

var validate = validator.New()

// BindAndValidate parses the request body and validates it using
// go-playground/validator. On failure the problem response is already
// written; the caller should return nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		_ = ProblemDetailsJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error()) //nolint:errcheck
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		_ = ProblemDetailsJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error()) //nolint:errcheck
		return nil, err
	}
	return &input, nil
}
