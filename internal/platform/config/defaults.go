package config

import "time"

// DefaultConfig returns the built-in configuration matching the documented
// environment defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 5000,
			Mode: "development",
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "data/logs",
			File:  "server.log",
		},
		ML: MLConfig{
			BaseURL:     "http://127.0.0.1:5001",
			ProcessPath: "/process",
			// Generous fixed timeout; background removal can take a while
			// on large images.
			Timeout: 120 * time.Second,
		},
		Storage: StorageConfig{
			Dir:        "uploads",
			PublicPath: "/uploads",
		},
		Upload: UploadConfig{
			MaxFileSize:    5 * 1024 * 1024,
			MaxPixels:      16777216,
			MaxWidth:       4096,
			MaxHeight:      4096,
			AllowedFormats: []string{"jpeg", "jpg", "png", "webp", "gif"},
		},
		Web: WebConfig{
			AllowedOrigin: "http://localhost:5173",
		},
	}
}
