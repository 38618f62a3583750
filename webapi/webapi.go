// Package webapi provides the HTTP API of minibank.
// It is organized into sub-packages for different domains:
// - customer: Customer registration and profile endpoints
// - account: Account, deposit and transfer endpoints
// - common: Error responses, request binding and idempotency
package webapi

import (
	"strings"

	_ "github.com/amirasaad/minibank/docs"
	"github.com/amirasaad/minibank/pkg/app"
	accountweb "github.com/amirasaad/minibank/webapi/account"
	"github.com/amirasaad/minibank/webapi/common"
	customerweb "github.com/amirasaad/minibank/webapi/customer"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName:      "minibank",
		ErrorHandler: common.ErrorHandler(a.Deps.Logger),
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled: true,
	}))

	if rl := a.Config.RateLimit; rl != nil && rl.MaxRequests > 0 {
		fiberApp.Use(limiter.New(limiter.Config{
			Max:        rl.MaxRequests,
			Expiration: rl.Window,
			// Uses X-Forwarded-For when behind a proxy, then X-Real-IP, then the peer.
			KeyGenerator: func(c *fiber.Ctx) string {
				if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
					first, _, _ := strings.Cut(forwardedFor, ",")
					return strings.TrimSpace(first)
				}
				if realIP := c.Get("X-Real-IP"); realIP != "" {
					return realIP
				}
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests, "rate limit exceeded")
			},
		}))
	}
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("minibank API is running! 🚀")
	})

	api := fiberApp.Group("/api/v1")
	customerweb.Routes(api, a.CustomerService)
	accountweb.Routes(api, a.AccountService, common.Idempotency(a.Idempotency))
	return fiberApp
}
