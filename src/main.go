package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/contre95/resonate/src/features/charts"
	"github.com/contre95/resonate/src/features/config"
	"github.com/contre95/resonate/src/features/hosting"
	"github.com/contre95/resonate/src/features/ingest"
	"github.com/contre95/resonate/src/features/logging"
	"github.com/contre95/resonate/src/features/search"
	"github.com/contre95/resonate/src/features/stats"
	"github.com/contre95/resonate/src/features/syncer"
	"github.com/contre95/resonate/src/infra/database"
	"github.com/contre95/resonate/src/infra/lastfm"
	"github.com/contre95/resonate/src/infra/watcher"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional, environment overrides still apply without it
	_ = godotenv.Load()

	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Create the database history
	db, err := database.NewSqliteHistory(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to create history: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create the feature services
	ingestService := ingest.NewService(db)
	chartsService := charts.NewService(db, cfgManager)
	statsService := stats.NewService(db)
	searchService := search.NewService(db)

	lastfmClient := lastfm.NewClient(cfgManager.Get().Lastfm.APIKey, cfgManager.Get().Lastfm.User)
	syncService := syncer.NewService(lastfmClient, ingestService, cfgManager)
	syncService.Start(ctx)
	defer syncService.Stop()

	// Watch the import directory for dropped history dumps
	var fileWatcher *watcher.Watcher
	if cfgManager.Get().Import.AutoStartWatcher {
		fileEvents := make(chan watcher.FileEvent, 16)
		fileWatcher, err = watcher.NewWatcher(fileEvents)
		if err != nil {
			slog.Error("Failed to create file watcher", "error", err)
		} else if err := fileWatcher.Start(ctx, cfgManager.Get().Import.WatchPath); err != nil {
			slog.Error("Failed to start file watcher", "error", err, "path", cfgManager.Get().Import.WatchPath)
		} else {
			go syncService.WatchImports(ctx, fileEvents)
			slog.Info("Watching import directory", "path", cfgManager.Get().Import.WatchPath)
		}
	}

	// Create and start the Telegram bot if enabled
	var telegramBot *hosting.TelegramBot
	if cfgManager.Get().Telegram.Enabled {
		var err error
		telegramBot, err = hosting.NewTelegramBot(cfgManager, chartsService, syncService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
		} else {
			go telegramBot.Start()
			slog.Info("Telegram bot started")
		}
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, ingestService, chartsService, statsService, searchService, syncService)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("Shutting down server...")

	// Shutdown the Telegram bot
	if telegramBot != nil {
		telegramBot.Stop()
		slog.Info("Telegram bot stopped")
	}

	if fileWatcher != nil {
		fileWatcher.Stop()
	}

	// Shutdown the server
	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
