// Package common holds what the HTTP handlers share: the error body, the
// translation of domain errors to status codes, request binding and the
// idempotency middleware.
package common

import (
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/gofiber/fiber/v2"
)

// retryAfterSeconds is sent with every 503.
const retryAfterSeconds = "1"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// ErrorResponseJSON writes an ErrorResponse with the given status.
func ErrorResponseJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Message:   message,
	})
}

// StatusFor maps err to an HTTP status and the message shown to the client.
// Errors without a domain kind are reported as a generic 500.
func StatusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			return fe.Code, "internal server error"
		}
		return fe.Code, fe.Message
	}
	switch domain.Kind(err) {
	case domain.ErrNotFound:
		return fiber.StatusNotFound, err.Error()
	case domain.ErrValidation:
		return fiber.StatusBadRequest, err.Error()
	case domain.ErrConflict, domain.ErrInsufficientFunds:
		return fiber.StatusConflict, err.Error()
	case domain.ErrStoreUnavailable:
		return fiber.StatusServiceUnavailable, "service temporarily unavailable, retry later"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

// ErrorHandler renders every error returned by a handler. Server-side
// failures are logged with their cause, which never reaches the client.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := StatusFor(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error("❌ Request failed",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"error", err,
			)
		}
		if status == fiber.StatusServiceUnavailable {
			c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
		}
		return ErrorResponseJSON(c, status, message)
	}
}
