package common

import (
	"errors"

	"github.com/amirasaad/minibank/pkg/idempotency"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 255
)

// Idempotency replays the stored response of a request repeated with the
// same Idempotency-Key header. Keys are scoped by method and path; reusing a
// key with another body is rejected with 422, and a key whose first request
// is still running with 409. Requests without the header pass through.
func Idempotency(guard *idempotency.Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if guard == nil || key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLength {
			return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key is too long")
		}

		scoped := c.Method() + " " + c.Path() + " " + key
		fingerprint := idempotency.Fingerprint(c.Body())

		rec, replayed, err := guard.Do(c.UserContext(), scoped, fingerprint, func() (*idempotency.Record, error) {
			if err := c.Next(); err != nil {
				if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
					return nil, herr
				}
			}
			resp := c.Response()
			return &idempotency.Record{
				Status:      resp.StatusCode(),
				ContentType: string(resp.Header.ContentType()),
				Body:        append([]byte(nil), resp.Body()...),
			}, nil
		})
		switch {
		case errors.Is(err, idempotency.ErrFingerprintMismatch):
			return ErrorResponseJSON(c, fiber.StatusUnprocessableEntity,
				"Idempotency-Key was already used with a different request body")
		case errors.Is(err, idempotency.ErrInFlight):
			return ErrorResponseJSON(c, fiber.StatusConflict,
				"a request with this Idempotency-Key is still being processed")
		case err != nil:
			return err
		}
		if !replayed || rec == nil {
			// the response was written by this request
			return nil
		}

		c.Set(HeaderIdempotentReplayed, "true")
		if rec.ContentType != "" {
			c.Set(fiber.HeaderContentType, rec.ContentType)
		}
		return c.Status(rec.Status).Send(rec.Body)
	}
}
