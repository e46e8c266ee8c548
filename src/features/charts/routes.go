package charts

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the charts feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	api := app.Group("/api")
	api.Get("/top-artists", handler.GetTopArtists)
	api.Get("/top-tracks", handler.GetTopTracks)
	api.Get("/top-albums", handler.GetTopAlbums)
	api.Get("/recent-plays", handler.GetRecentPlays)
	api.Get("/recent-tracks", handler.GetRecentPlays)
	api.Get("/unique-counts", handler.GetUniqueCounts)
	api.Get("/daily-plays", handler.GetDailyPlays)

	api.Get("/artist/:id/top-tracks", handler.GetArtistTopTracks)
	api.Get("/artist/:id/top-albums", handler.GetArtistTopAlbums)
	api.Get("/artist/:id/daily-plays", handler.GetArtistDailyPlays)
	api.Get("/artist/:id/recent-plays", handler.GetArtistRecentPlays)

	api.Get("/album/:id/top-tracks", handler.GetAlbumTopTracks)
	api.Get("/album/:id/recent-plays", handler.GetAlbumRecentPlays)
}
