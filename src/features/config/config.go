package config

import "time"

// Config holds the application configuration.
type Config struct {
	Server     Server     `yaml:"server"`
	Logger     Logger     `yaml:"logger"`
	MediaStore MediaStore `yaml:"mediastore"`
	Artwork    Artwork    `yaml:"artwork"`
	Tasks      Tasks      `yaml:"tasks"`
	Opening    Opening    `yaml:"opening"`
}

// Server hold the configuration for the Fiber server Config
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port" validate:"required"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" validate:"omitempty,oneof=json text logfmt"`
}

// MediaStore holds the configuration for the content index that backs content:// handles.
type MediaStore struct {
	Path        string   `yaml:"path" validate:"required"`
	WatchDirs   []string `yaml:"watch_dirs"`
	ScanOnStart bool     `yaml:"scan_on_start"`
}

// Artwork holds configuration for fetching and normalizing cover art
type Artwork struct {
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxAttempts int           `yaml:"max_attempts" validate:"gte=1,lte=10"`
	Backoff     time.Duration `yaml:"backoff"`
	MaxBytes    int64         `yaml:"max_bytes" validate:"gt=0"`
	MaxSize     int           `yaml:"max_size" validate:"gte=0"` // 0 keeps the original dimensions
	CacheSize   int           `yaml:"cache_size" validate:"gte=0"`
	UserAgent   string        `yaml:"user_agent"`
}

// Tasks holds the configuration for the async task runner
type Tasks struct {
	Workers int `yaml:"workers" validate:"gte=1"`
}

// Opening holds the configuration for the "open with" intent router
type Opening struct {
	ReportUnsupported bool `yaml:"report_unsupported"`
}
