package search

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the search feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	api := app.Group("/api")
	api.Get("/search", handler.GetSearch)
}
