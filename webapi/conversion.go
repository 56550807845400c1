package webapi

import (
	"github.com/amirasaad/fxbridge/pkg/currency"
	"github.com/amirasaad/fxbridge/pkg/service/conversion"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ConvertRequest carries the /convert query parameters. Currency membership
// and case normalization are handled by currency.Parse, so lowercase codes
// are accepted.
type ConvertRequest struct {
	From     string `query:"from" validate:"required"`
	To       string `query:"to" validate:"required"`
	Quantity string `query:"quantity" validate:"required"`
}

// ConvertResponse is the converted amount in the target currency, rendered
// with exactly two decimal places.
type ConvertResponse struct {
	Quantity string `json:"quantity"`
	Currency string `json:"ccy"`
}

// RatesResponse is the current flat rate table split into raw bridge prices
// and derived cross-rates.
type RatesResponse struct {
	BinancePrices     map[string]decimal.Decimal `json:"binance_prices"`
	DerivedCrossRates map[string]decimal.Decimal `json:"derived_cross_rates"`
}

// Routes registers HTTP routes for conversion operations.
func Routes(app *fiber.App, svc *conversion.Service) {
	app.Get("/convert", Convert(svc))
	app.Get("/rates", Rates(svc))
}

// Convert returns a Fiber handler that converts an amount between two
// supported currencies.
// @Summary Convert between currencies
// @Description Convert a positive amount from one supported fiat currency to another
// @Tags conversion
// @Produce json
// @Param from query string true "Source currency (USD, EUR, GBP)"
// @Param to query string true "Target currency (USD, EUR, GBP)"
// @Param quantity query number true "Amount to convert (strictly positive)"
// @Success 200 {object} Response
// @Failure 400 {object} ProblemDetails
// @Failure 422 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /convert [get]
func Convert(svc *conversion.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidateQuery[ConvertRequest](c)
		if err != nil {
			return nil // Error already written by BindAndValidateQuery
		}

		from, err := currency.Parse(input.From)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), ErrorToTitle(err), err.Error())
		}
		to, err := currency.Parse(input.To)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), ErrorToTitle(err), err.Error())
		}
		quantity, err := decimal.NewFromString(input.Quantity)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnprocessableEntity, "Validation failed",
				"quantity must be a decimal number")
		}

		result, err := svc.Convert(c.Context(), from, to, quantity)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), ErrorToTitle(err), err.Error())
		}

		return SuccessResponseJSON(c, fiber.StatusOK, "Conversion successful", ConvertResponse{
			Quantity: result.Quantity.StringFixed(2),
			Currency: result.Currency.String(),
		})
	}
}

// Rates returns a Fiber handler exposing the current rate table for
// diagnostic use. It runs the same cache-refresh path as Convert.
// @Summary Current rate table
// @Description Raw bridge prices and derived cross-rates currently in the cache
// @Tags conversion
// @Produce json
// @Success 200 {object} Response
// @Failure 502 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /rates [get]
func Rates(svc *conversion.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot, err := svc.RateTable(c.Context())
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), ErrorToTitle(err), err.Error())
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Rate table fetched successfully", RatesResponse{
			BinancePrices:     snapshot.BridgePrices,
			DerivedCrossRates: snapshot.CrossRates,
		})
	}
}
