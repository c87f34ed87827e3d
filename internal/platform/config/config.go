package config

import (
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	ML      MLConfig      `yaml:"ml_service"`
	Storage StorageConfig `yaml:"storage"`
	Upload  UploadConfig  `yaml:"upload"`
	Web     WebConfig     `yaml:"web"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
	// Mode gates whether failure responses include diagnostic detail.
	Mode string `yaml:"mode"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

// MLConfig describes the external background-removal service.
type MLConfig struct {
	BaseURL     string        `yaml:"url"`
	ProcessPath string        `yaml:"process_path"`
	Timeout     time.Duration `yaml:"timeout"`
}

// StorageConfig describes the artifact storage area and how stored
// artifacts are addressed publicly.
type StorageConfig struct {
	Dir        string `yaml:"dir"`
	PublicPath string `yaml:"public_path"`
	// PublicBaseURL is the external host prefix of returned locators.
	// Derived from the listening port when empty.
	PublicBaseURL string `yaml:"public_base_url"`
}

// UploadConfig bounds incoming image payloads.
type UploadConfig struct {
	MaxFileSize    int64    `yaml:"max_file_size"`
	MaxPixels      int64    `yaml:"max_pixels"`
	MaxWidth       int      `yaml:"max_width"`
	MaxHeight      int      `yaml:"max_height"`
	AllowedFormats []string `yaml:"allowed_formats"`
}

type WebConfig struct {
	AllowedOrigin string `yaml:"allowed_origin"`
}

// IsProduction reports whether diagnostic detail must be withheld from
// failure responses.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}
