package stats

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the stats feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	api := app.Group("/api")
	api.Get("/artist/all", handler.GetAllArtists)
	api.Get("/artist/:id", handler.GetArtist)
	api.Get("/artist/:id/stats", handler.GetArtistStats)
	api.Get("/artist/:id/milestones", handler.GetArtistMilestones)

	api.Get("/album/:id", handler.GetAlbum)
	api.Get("/album/:id/stats", handler.GetAlbumStats)
	api.Get("/album/:id/milestones", handler.GetAlbumMilestones)
}
