package syncer

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the syncer feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the syncer feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PostSyncRun triggers one sync run immediately.
func (h *Handler) PostSyncRun(c *fiber.Ctx) error {
	slog.Debug("PostSyncRun handler called")

	report, err := h.service.RunOnce(c.Context())
	if err != nil {
		slog.Error("Error running sync", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "sync failed"})
	}

	return c.JSON(report)
}

// GetSyncStatus returns the syncer's last activity.
func (h *Handler) GetSyncStatus(c *fiber.Ctx) error {
	slog.Debug("GetSyncStatus handler called")
	return c.JSON(h.service.Status())
}
