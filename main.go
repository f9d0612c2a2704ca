package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"limit-book/src/config"
	"limit-book/src/handlers"
	"limit-book/src/logger"
	"limit-book/src/routes"
	"limit-book/src/sim"
)

func main() {
	demo := flag.Bool("demo", false, "run the scripted demo scenarios and exit")
	stress := flag.Int("stress", 0, "run N random operations against a fresh book and exit")
	seed := flag.Int64("seed", 42, "seed for the -stress run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log)
	defer logger.Close()
	log := logger.Get()

	if *demo {
		sim.RunDemo(os.Stdout, cfg.Book.Engine())
		return
	}
	if *stress > 0 {
		rep := sim.RunStress(cfg.Book.Engine(), *stress, *seed)
		log.Info().
			Int("adds", rep.Adds).
			Int("cancels", rep.Cancels).
			Int("amends", rep.Amends).
			Int("trades", rep.Trades).
			Int("rejects", rep.Rejects).
			Int("resting_orders", rep.RestingOrders).
			Int("bid_levels", rep.BidLevels).
			Int("ask_levels", rep.AskLevels).
			Uint64("version", rep.Version).
			Msg("Stress run complete")
		return
	}

	log.Info().Msg("Initializing limit order book service")

	orderHandler := handlers.NewOrderHandler(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Error().
				Str("path", c.Path()).
				Str("method", c.Method()).
				Int("status", code).
				Str("error", err.Error()).
				Msg("Request error")

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	routes.SetupRoutes(app, orderHandler, cfg)

	port := ":" + cfg.Port

	serverError := make(chan error, 1)

	go func() {
		if err := app.Listen(port); err != nil {
			// edge case: ignore shutdown errors, only report real errors
			if err.Error() != "server is shutting down" {
				serverError <- err
			}
		}
	}()

	select {
	case err := <-serverError:
		log.Fatal().
			Err(err).
			Str("port", port).
			Str("hint", "Port may be already in use. Try: PORT=3000 go run main.go").
			Msg("Server failed to start")
	default:
		log.Info().
			Str("port", port).
			Msg("Limit order book service started")

		log.Info().
			Strs("endpoints", []string{
				"POST   /api/v1/orders",
				"PUT    /api/v1/orders/:id",
				"DELETE /api/v1/orders/:id",
				"GET    /api/v1/orders/:id",
				"GET    /api/v1/book",
				"GET    /health",
				"GET    /metrics",
			}).
			Msg("API endpoints registered")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	log.Info().Msg("Received shutdown signal, shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		// edge case: timeout during shutdown is acceptable
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn().
				Dur("timeout", cfg.ShutdownTimeout).
				Msg("Timeout exceeded, shutting down...")
		} else {
			log.Error().
				Err(err).
				Msg("Error during shutdown")
		}
	} else {
		log.Info().Msg("Shutdown complete")
	}
}
