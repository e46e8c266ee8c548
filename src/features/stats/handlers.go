package stats

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/contre95/resonate/src/music"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the stats feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the stats feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// GetArtist is the handler for one artist's detail.
func (h *Handler) GetArtist(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid artist id"})
	}

	artist, err := h.service.GetArtist(c.Context(), id)
	if err != nil {
		if errors.Is(err, music.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "artist not found"})
		}
		slog.Error("Error loading artist", "artistID", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load artist"})
	}

	return c.JSON(artist)
}

// GetAllArtists is the handler for the full artist list.
func (h *Handler) GetAllArtists(c *fiber.Ctx) error {
	slog.Debug("GetAllArtists handler called")

	artists, err := h.service.AllArtists(c.Context())
	if err != nil {
		slog.Error("Error loading artists", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load artists"})
	}

	return c.JSON(artists)
}

// GetAlbum is the handler for one album's detail.
func (h *Handler) GetAlbum(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid album id"})
	}

	album, err := h.service.GetAlbum(c.Context(), id)
	if err != nil {
		if errors.Is(err, music.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "album not found"})
		}
		slog.Error("Error loading album", "albumID", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load album"})
	}

	return c.JSON(album)
}

func (h *Handler) entityStats(c *fiber.Ctx, kind music.EntityKind) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	stats, err := h.service.EntityStats(c.Context(), kind, id)
	if err != nil {
		if errors.Is(err, music.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}
		slog.Error("Error loading stats", "kind", kind, "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load stats"})
	}

	return c.JSON(stats)
}

func (h *Handler) entityMilestones(c *fiber.Ctx, kind music.EntityKind) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	milestones, err := h.service.Milestones(c.Context(), kind, id)
	if err != nil {
		if errors.Is(err, music.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}
		slog.Error("Error loading milestones", "kind", kind, "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load milestones"})
	}

	return c.JSON(milestones)
}

// GetArtistStats is the handler for one artist's statistics.
func (h *Handler) GetArtistStats(c *fiber.Ctx) error {
	return h.entityStats(c, music.KindArtist)
}

// GetArtistMilestones is the handler for one artist's milestones.
func (h *Handler) GetArtistMilestones(c *fiber.Ctx) error {
	return h.entityMilestones(c, music.KindArtist)
}

// GetAlbumStats is the handler for one album's statistics.
func (h *Handler) GetAlbumStats(c *fiber.Ctx) error {
	return h.entityStats(c, music.KindAlbum)
}

// GetAlbumMilestones is the handler for one album's milestones.
func (h *Handler) GetAlbumMilestones(c *fiber.Ctx) error {
	return h.entityMilestones(c, music.KindAlbum)
}
