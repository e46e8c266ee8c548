package syncer

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the syncer feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	api := app.Group("/api")
	api.Post("/sync/run", handler.PostSyncRun)
	api.Get("/sync/status", handler.GetSyncStatus)
}
