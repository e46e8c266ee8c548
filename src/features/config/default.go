package config

// createDefaultConfig creates a new Config with sensible default values
func createDefaultConfig() *Config {
	return &Config{
		Telegram: Telegram{
			Enabled:      false,
			Token:        "",                                   // Can be obtained with https://t.me/BotFather
			AllowedUsers: []string{"<your_telegram_username>"}, // No @
			BotHandle:    "@<YourTelegramUserBot>",             // With @
		},
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		Server: Server{
			PrintRoutes: false,
			Port:        3737,
		},
		Database: Database{
			Path: "./history.db",
		},
		Lastfm: Lastfm{
			Enabled:      false,
			APIKey:       "", // https://www.last.fm/api/account/create
			User:         "",
			SyncInterval: 15,
		},
		Import: Import{
			WatchPath:        "./imports",
			AutoStartWatcher: false,
		},
		Charts: Charts{
			DefaultLimit: 10,
		},
	}
}
