package hosting

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/contre95/resonate/src/features/metrics"
	"github.com/gofiber/fiber/v2"
)

// RequestMetricsMiddleware records per-request counters and latency.
func RequestMetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// Route() gives the registered pattern, keeping the label
		// cardinality bounded even with :id parameters.
		path := c.Route().Path
		status := fmt.Sprint(c.Response().StatusCode())

		metrics.APIRequests.WithLabelValues(c.Method(), path, status).Inc()
		metrics.APIRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())

		return err
	}
}

// LogAllRequestsMiddleware logs all requests
func LogAllRequestsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		if status >= 400 {
			slog.Error("HTTP request",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"duration", duration.String(),
				"error", err,
			)
		} else {
			slog.Debug("HTTP request",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"duration", duration.String(),
			)
		}
		return err
	}
}
