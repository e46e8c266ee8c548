package ingest

import (
	"log/slog"

	"github.com/contre95/resonate/src/music"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the ingest feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the ingest feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PostRecentTracks ingests a JSON array of play events.
func (h *Handler) PostRecentTracks(c *fiber.Ctx) error {
	slog.Debug("PostRecentTracks handler called")

	var events []music.PlayEvent
	if err := c.BodyParser(&events); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "body must be a JSON array of play events",
		})
	}

	report, err := h.service.Ingest(c.Context(), events, "api")
	if err != nil {
		slog.Error("Error ingesting batch", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to store plays",
		})
	}

	return c.JSON(report)
}

// GetRecentTimestamp returns the newest play timestamp, so a client
// can ask its source only for plays it has not sent yet.
func (h *Handler) GetRecentTimestamp(c *fiber.Ctx) error {
	slog.Debug("GetRecentTimestamp handler called")

	ts, err := h.service.LastTimestamp(c.Context())
	if err != nil {
		slog.Error("Error loading last timestamp", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load last timestamp",
		})
	}

	return c.JSON(fiber.Map{"timestamp": ts})
}
