package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/barber-portal/internal/api/http/handlers"
	"github.com/spec-kit/barber-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Auth              *handlers.AuthHandler
	Appointments      *handlers.AppointmentsHandler
	Blocks            *handlers.BlocksHandler
	Earnings          *handlers.EarningsHandler
	Profile           *handlers.ProfileHandler
	SessionMiddleware *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/logout", cfg.Auth.Logout)

	portal := app.Group("/portal", cfg.SessionMiddleware.Handle, auth.RequireSession())

	portal.Get("/appointments", cfg.Appointments.List)
	portal.Post("/appointments/:id/confirm", cfg.Appointments.Confirm)
	portal.Post("/appointments/:id/start", cfg.Appointments.Start)
	portal.Post("/appointments/:id/complete", cfg.Appointments.Complete)
	portal.Post("/appointments/:id/no-show", cfg.Appointments.MarkNoShow)
	portal.Patch("/appointments/:id/status", cfg.Appointments.SetStatus)
	portal.Get("/appointments/:id/history", cfg.Appointments.History)

	portal.Get("/blocks", cfg.Blocks.List)
	portal.Post("/blocks", cfg.Blocks.Create)
	portal.Delete("/blocks/:id", cfg.Blocks.Delete)

	portal.Get("/earnings", cfg.Earnings.Summary)
	portal.Get("/earnings/report", cfg.Earnings.Report)
	portal.Get("/earnings/report/export", cfg.Earnings.Export)

	portal.Get("/profile", cfg.Profile.Get)
	portal.Patch("/profile", cfg.Profile.Update)
	portal.Post("/profile/password", cfg.Profile.ChangePassword)
}
