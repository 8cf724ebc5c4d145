// Package webapi provides the HTTP surface of the SaveBlue backend.
// It is organized into sub-packages per resource:
// - auth: registration, login and logout
// - user: profile management
// - account: regular and drafts accounts
// - entry: expenses, incomes, SMS drafts and categories
// - goal: savings goals and reservations
package webapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/saveblue/saveblue/docs"
	"github.com/saveblue/saveblue/pkg/app"
	accountweb "github.com/saveblue/saveblue/webapi/account"
	authweb "github.com/saveblue/saveblue/webapi/auth"
	"github.com/saveblue/saveblue/webapi/common"
	entryweb "github.com/saveblue/saveblue/webapi/entry"
	goalweb "github.com/saveblue/saveblue/webapi/goal"
	userweb "github.com/saveblue/saveblue/webapi/user"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))

	// Rate limit per client, keyed on the first X-Forwarded-For hop when
	// behind a proxy, then X-Real-IP, then the peer address.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
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
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("SaveBlue API is running")
	})
	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authweb.Routes(fiberApp, a.AuthService, a.UserService, cfg.Auth)
	userweb.Routes(fiberApp, a.UserService, a.AuthService, a.Ownership, cfg.Auth)
	accountweb.Routes(fiberApp, a.AccountService, a.AuthService, a.Ownership, cfg.Auth)
	goalweb.Routes(fiberApp, a.GoalService, a.AuthService, a.Ownership, cfg.Auth)
	entryweb.Routes(fiberApp, a.EntryService, a.DraftService, a.AuthService, a.Ownership, cfg.Auth)

	fiberApp.Use(func(c *fiber.Ctx) error {
		return common.ProblemDetailsJSON(c, "Not Found", fiber.ErrNotFound, "no route for "+c.Method()+" "+c.Path())
	})
	return fiberApp
}
