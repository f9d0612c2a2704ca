package middleware

import (
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Availability turns order submissions away when the book is at capacity and
// supports a maintenance mode that rejects everything except health checks.
type Availability struct {
	maintenanceMode  atomic.Bool
	maxRestingOrders int64
	restingOrders    func() int64
}

// NewAvailability builds the guard. maxRestingOrders 0 disables the capacity
// check; restingOrders reports the current number of orders in the book.
func NewAvailability(maintenance bool, maxRestingOrders int64, restingOrders func() int64) *Availability {
	a := &Availability{
		maxRestingOrders: maxRestingOrders,
		restingOrders:    restingOrders,
	}
	if maintenance {
		a.maintenanceMode.Store(true)
		log.Warn().Msg("Service is in maintenance mode - all requests will return 503")
	}
	return a
}

func (a *Availability) SetMaintenanceMode(enabled bool) {
	a.maintenanceMode.Store(enabled)
	if enabled {
		log.Warn().Msg("Service maintenance mode enabled")
	} else {
		log.Info().Msg("Service maintenance mode disabled")
	}
}

func (a *Availability) IsMaintenanceMode() bool {
	return a.maintenanceMode.Load()
}

func (a *Availability) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// edge case: health check always available
		if c.Path() == "/health" {
			return c.Next()
		}

		if a.maintenanceMode.Load() {
			log.Warn().
				Str("path", c.Path()).
				Str("method", c.Method()).
				Str("ip", c.IP()).
				Msg("Request rejected: service in maintenance mode")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":   "Service unavailable",
				"message": "The service is currently undergoing maintenance. Please try again later.",
				"code":    503,
			})
		}

		// Only new submissions grow the book; cancels and queries stay
		// available so callers can drain it.
		if a.maxRestingOrders > 0 && c.Method() == fiber.MethodPost && a.restingOrders != nil {
			resting := a.restingOrders()
			if resting >= a.maxRestingOrders {
				log.Warn().
					Str("path", c.Path()).
					Int64("resting_orders", resting).
					Int64("max_resting_orders", a.maxRestingOrders).
					Msg("Request rejected: book at capacity")
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error":   "Service unavailable",
					"message": "The order book is at capacity. Please try again later.",
					"code":    503,
				})
			}
		}

		return c.Next()
	}
}
