package config

// Config holds the application configuration.
type Config struct {
	Telegram Telegram `yaml:"telegram"`
	Logger   Logger   `yaml:"logger"`
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Lastfm   Lastfm   `yaml:"lastfm"`
	Import   Import   `yaml:"import"`
	Charts   Charts   `yaml:"charts"`
}

// Database holds the configuration for the database
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Server hold the configuration for the Fiber server Config
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

type Telegram struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token"`
	AllowedUsers []string `yaml:"allowedUsers"`
	BotHandle    string   `yaml:"bot_handle"`
}

// Lastfm holds the configuration for the last.fm scrobble syncer.
type Lastfm struct {
	Enabled      bool   `yaml:"enabled"`
	APIKey       string `yaml:"api_key"`
	User         string `yaml:"user"`
	SyncInterval int    `yaml:"sync_interval_minutes"`
}

// Import holds the configuration for file-based history imports.
type Import struct {
	WatchPath        string `yaml:"watch_path"`
	AutoStartWatcher bool   `yaml:"auto_start_watcher"`
}

// Charts holds defaults for the chart endpoints.
type Charts struct {
	DefaultLimit int `yaml:"default_limit"`
}
