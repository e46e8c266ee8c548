package hosting

import (
	"fmt"
	"log/slog"

	"github.com/contre95/resonate/src/features/charts"
	"github.com/contre95/resonate/src/features/config"
	"github.com/contre95/resonate/src/features/ingest"
	"github.com/contre95/resonate/src/features/metrics"
	"github.com/contre95/resonate/src/features/search"
	"github.com/contre95/resonate/src/features/stats"
	"github.com/contre95/resonate/src/features/syncer"
	"github.com/gofiber/fiber/v2"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, ingestService *ingest.Service, chartsService *charts.Service, statsService *stats.Service, searchService *search.Service, syncService *syncer.Service) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("Internal Server Error", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
		AppName:               "Resonate",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
		BodyLimit:             100 * 1024 * 1024, // large Spotify exports arrive as one POST
	})

	app.Use(RequestMetricsMiddleware())
	app.Use(LogAllRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	ingest.RegisterRoutes(app, ingestService)
	charts.RegisterRoutes(app, chartsService)
	stats.RegisterRoutes(app, statsService)
	search.RegisterRoutes(app, searchService)
	syncer.RegisterRoutes(app, syncService)
	config.RegisterRoutes(app, cfg)
	metrics.RegisterRoutes(app)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
