package ingest

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the ingest feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	api := app.Group("/api")
	api.Post("/recent-tracks", handler.PostRecentTracks)
	api.Get("/recent-timestamp", handler.GetRecentTimestamp)
}
