package charts

import (
	"log/slog"
	"strconv"

	"github.com/contre95/resonate/src/music"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the charts feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the charts feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// GetTopArtists is the handler for the global top-artists chart.
func (h *Handler) GetTopArtists(c *fiber.Ctx) error {
	slog.Debug("GetTopArtists handler called")

	period := music.ParsePeriod(c.Query("period"))
	chart, err := h.service.TopArtists(c.Context(), period, c.QueryInt("limit"))
	if err != nil {
		slog.Error("Error loading top artists", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load chart"})
	}

	return c.JSON(chart)
}

// GetTopTracks is the handler for the global top-tracks chart.
func (h *Handler) GetTopTracks(c *fiber.Ctx) error {
	slog.Debug("GetTopTracks handler called")

	period := music.ParsePeriod(c.Query("period"))
	chart, err := h.service.TopTracks(c.Context(), period, c.QueryInt("limit"), nil, nil)
	if err != nil {
		slog.Error("Error loading top tracks", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load chart"})
	}

	return c.JSON(chart)
}

// GetTopAlbums is the handler for the global top-albums chart.
func (h *Handler) GetTopAlbums(c *fiber.Ctx) error {
	slog.Debug("GetTopAlbums handler called")

	period := music.ParsePeriod(c.Query("period"))
	chart, err := h.service.TopAlbums(c.Context(), period, c.QueryInt("limit"), nil)
	if err != nil {
		slog.Error("Error loading top albums", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load chart"})
	}

	return c.JSON(chart)
}

// GetRecentPlays is the handler for the global recent-plays feed.
func (h *Handler) GetRecentPlays(c *fiber.Ctx) error {
	slog.Debug("GetRecentPlays handler called")

	plays, err := h.service.RecentPlays(c.Context(), c.QueryInt("limit"))
	if err != nil {
		slog.Error("Error loading recent plays", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load plays"})
	}

	return c.JSON(plays)
}

// GetUniqueCounts is the handler for the library totals.
func (h *Handler) GetUniqueCounts(c *fiber.Ctx) error {
	slog.Debug("GetUniqueCounts handler called")

	counts, err := h.service.UniqueCounts(c.Context())
	if err != nil {
		slog.Error("Error loading unique counts", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load counts"})
	}

	return c.JSON(counts)
}

// GetDailyPlays is the handler for the global daily-plays series.
func (h *Handler) GetDailyPlays(c *fiber.Ctx) error {
	slog.Debug("GetDailyPlays handler called")

	days, err := h.service.DailyPlays(c.Context(), c.QueryInt("days"))
	if err != nil {
		slog.Error("Error loading daily plays", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load series"})
	}

	return c.JSON(days)
}

// GetArtistTopTracks is the handler for one artist's top tracks.
func (h *Handler) GetArtistTopTracks(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid artist id"})
	}

	period := music.ParsePeriod(c.Query("period"))
	chart, err := h.service.TopTracks(c.Context(), period, c.QueryInt("limit"), &id, nil)
	if err != nil {
		slog.Error("Error loading artist top tracks", "artistID", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load chart"})
	}

	return c.JSON(chart)
}

// GetArtistTopAlbums is the handler for one artist's top albums.
func (h *Handler) GetArtistTopAlbums(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid artist id"})
	}

	period := music.ParsePeriod(c.Query("period"))
	chart, err := h.service.TopAlbums(c.Context(), period, c.QueryInt("limit"), &id)
	if err != nil {
		slog.Error("Error loading artist top albums", "artistID", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load chart"})
	}

	return c.JSON(chart)
}

// GetArtistDailyPlays is the handler for one artist's daily series.
func (h *Handler) GetArtistDailyPlays(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid artist id"})
	}

	days, err := h.service.ArtistDailyPlays(c.Context(), id, c.QueryInt("days"))
	if err != nil {
		slog.Error("Error loading artist daily plays", "artistID", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load series"})
	}

	return c.JSON(days)
}

// GetArtistRecentPlays is the handler for one artist's recent plays.
func (h *Handler) GetArtistRecentPlays(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid artist id"})
	}

	plays, err := h.service.EntityRecentPlays(c.Context(), music.KindArtist, id, c.QueryInt("limit"))
	if err != nil {
		slog.Error("Error loading artist recent plays", "artistID", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load plays"})
	}

	return c.JSON(plays)
}

// GetAlbumTopTracks is the handler for one album's top tracks.
func (h *Handler) GetAlbumTopTracks(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid album id"})
	}

	period := music.ParsePeriod(c.Query("period"))
	chart, err := h.service.TopTracks(c.Context(), period, c.QueryInt("limit"), nil, &id)
	if err != nil {
		slog.Error("Error loading album top tracks", "albumID", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load chart"})
	}

	return c.JSON(chart)
}

// GetAlbumRecentPlays is the handler for one album's recent plays.
func (h *Handler) GetAlbumRecentPlays(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid album id"})
	}

	plays, err := h.service.EntityRecentPlays(c.Context(), music.KindAlbum, id, c.QueryInt("limit"))
	if err != nil {
		slog.Error("Error loading album recent plays", "albumID", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load plays"})
	}

	return c.JSON(plays)
}
