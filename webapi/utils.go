package webapi

import (
	"errors"

	"github.com/amirasaad/fxbridge/pkg/currency"
	"github.com/amirasaad/fxbridge/pkg/domain"
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
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON returns a response following RFC 9457 Problem Details.
func ErrorResponseJSON(c *fiber.Ctx, status int, title string, detail string) error {
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

// ErrorToStatusCode maps domain errors to HTTP status codes. Client-input
// errors, upstream-dependency errors and unexpected failures each surface
// with a distinct status.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedPair):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNonPositiveQuantity):
		return fiber.StatusBadRequest
	case errors.Is(err, currency.ErrUnknownCurrency):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUpstreamUnavailable),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrMissingReferencePrice):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorToTitle pairs ErrorToStatusCode with a short problem title.
func ErrorToTitle(err error) string {
	switch ErrorToStatusCode(err) {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "Invalid conversion request"
	case fiber.StatusBadGateway:
		return "Upstream price source error"
	default:
		return "Unexpected error"
	}
}

// BindAndValidateQuery parses the query string into T and validates it using
// go-playground/validator. On failure it writes a problem-details response
// and returns the error.
func BindAndValidateQuery[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.QueryParser(&input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid query parameters", err.Error()) //nolint:errcheck
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		ErrorResponseJSON(c, fiber.StatusUnprocessableEntity, "Validation failed", err.Error()) //nolint:errcheck
		return nil, err
	}
	return &input, nil
}
