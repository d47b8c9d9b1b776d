package webapi

import (
	"github.com/dkarpov/playerledger/pkg/currency"
	"github.com/gofiber/fiber/v2"
)

// CurrencyDTO is the API representation of a supported currency.
type CurrencyDTO struct {
	Code string `json:"code"`
	Rate string `json:"rate"`
}

// CurrencyRoutes registers the public currency listing endpoints.
func CurrencyRoutes(app *fiber.App, registry *currency.Registry) {
	app.Get("/currencies", ListCurrencies(registry))
	app.Get("/currencies/:code", GetCurrency(registry))
}

// ListCurrencies returns the handler listing all supported currencies.
func ListCurrencies(registry *currency.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		codes := registry.Codes()
		dtos := make([]CurrencyDTO, 0, len(codes))
		for _, code := range codes {
			cur, err := registry.Get(code)
			if err != nil {
				continue
			}
			dtos = append(dtos, CurrencyDTO{Code: string(cur.Code), Rate: cur.Rate.String()})
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Currencies", Data: dtos})
	}
}

// GetCurrency returns the handler looking up one currency by code.
func GetCurrency(registry *currency.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cur, err := registry.Get(currency.Code(c.Params("code")))
		if err != nil {
			return ProblemDetailsJSON(c, fiber.StatusNotFound, "Currency not found", err.Error())
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Currency",
			Data:    CurrencyDTO{Code: string(cur.Code), Rate: cur.Rate.String()},
		})
	}
}
