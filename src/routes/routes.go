package routes

import (
	"github.com/gofiber/fiber/v2"

	"limit-book/src/config"
	"limit-book/src/handlers"
	"limit-book/src/middleware"
)

func SetupRoutes(app *fiber.App, orderHandler *handlers.OrderHandler, cfg *config.Config) {
	availability := middleware.NewAvailability(cfg.MaintenanceMode, cfg.MaxRestingOrders, orderHandler.RestingOrders)
	app.Use(availability.Middleware())
	app.Use(middleware.RequestLogger(cfg.RequestLoggingDisabled))

	api := app.Group("/api/v1")

	if !cfg.RateLimit.Disabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
		api.Use(rateLimiter.Middleware())
	}

	api.Post("/orders", orderHandler.SubmitOrder)
	api.Delete("/orders/:id", orderHandler.CancelOrder)
	api.Put("/orders/:id", orderHandler.AmendOrder)
	api.Get("/orders/:id", orderHandler.GetOrderStatus)
	api.Get("/book", orderHandler.GetBook)

	app.Get("/health", orderHandler.HealthCheck)
	app.Get("/metrics", orderHandler.MetricsHandler())
}
