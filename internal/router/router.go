package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vivekjindal24/university-erp/internal/config"
	"github.com/vivekjindal24/university-erp/internal/handler"
	"github.com/vivekjindal24/university-erp/internal/middleware"
	"github.com/vivekjindal24/university-erp/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AdmissionHandler *handler.AdmissionHandler
	PortalHandler    *handler.PortalHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	admissions := api.Group("/admissions", middleware.RateLimit("admissions", 120, time.Minute))

	// Public surface: status checks, portal projection, listings.
	if deps.PortalHandler != nil {
		deps.PortalHandler.Register(admissions)
	}

	// Staff surface: decisions, payments, document downloads. Auth is
	// applied per route; the public status routes share this prefix.
	if deps.AdmissionHandler != nil {
		deps.AdmissionHandler.Register(admissions.Group("/applications"), jwtMiddleware)
	}
}
