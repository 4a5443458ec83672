package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geofunlab/internal/core/usecases"
)

// APIError is the JSON body of every non-2xx response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"` // bad_request, busy, nothing_to_reveal, unavailable, internal_error
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusServiceUnavailable, "unavailable", msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// shellError maps a refused user action to a 409; anything else is a 500.
func shellError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecases.ErrBusy):
		return newError(c, fiber.StatusConflict, "busy", err.Error())
	case errors.Is(err, usecases.ErrNothingToReveal):
		return newError(c, fiber.StatusConflict, "nothing_to_reveal", err.Error())
	default:
		return errInternal(c, err.Error())
	}
}
