package config

import "time"

// createDefaultConfig creates a new Config with sensible default values
func createDefaultConfig() *Config {
	return &Config{
		Server: Server{
			PrintRoutes: false,
			Port:        3535,
		},
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		MediaStore: MediaStore{
			Path:        "./media.db",
			WatchDirs:   []string{},
			ScanOnStart: false,
		},
		Artwork: Artwork{
			Timeout:     15 * time.Second,
			MaxAttempts: 2,
			Backoff:     500 * time.Millisecond,
			MaxBytes:    20 * 1024 * 1024,
			MaxSize:     0,
			CacheSize:   64,
			UserAgent:   "lxbridge",
		},
		Tasks: Tasks{
			Workers: 4,
		},
		Opening: Opening{
			ReportUnsupported: false,
		},
	}
}
