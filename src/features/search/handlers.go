package search

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the search feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the search feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetSearch is the handler for the substring search.
func (h *Handler) GetSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	slog.Debug("GetSearch handler called", "query", query)

	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing query parameter 'q'"})
	}

	results, err := h.service.Search(c.Context(), query)
	if err != nil {
		slog.Error("Error running search", "query", query, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed"})
	}

	return c.JSON(results)
}
