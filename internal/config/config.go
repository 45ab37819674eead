package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "finsight.yaml"

// Config represents the top-level finsight.yaml configuration.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
	Import    ImportConfig    `yaml:"import"`
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
}

// DashboardConfig controls how metrics are presented.
type DashboardConfig struct {
	Title    string `yaml:"title"`
	Currency string `yaml:"currency"` // ISO 4217 code, amounts are shown in thousands
}

// ImportConfig describes where report exports are read from.
type ImportConfig struct {
	Dir      string `yaml:"dir"`
	Encoding string `yaml:"encoding"` // "utf-8" or "windows-1252"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// ServerConfig controls the HTTP dashboard API.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins,omitempty"`
	MaxUploadMB    int64         `yaml:"max_upload_mb"`
	SessionTTL     time.Duration `yaml:"session_ttl"`  // idle sessions older than this are dropped, 0 keeps them
	MaxSessions    int           `yaml:"max_sessions"` // 0 for no limit
}

// Load reads a finsight.yaml file from disk. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(""), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(title string) *Config {
	if title == "" {
		title = "Financial Dashboard"
	}
	return &Config{
		Dashboard: DashboardConfig{
			Title:    title,
			Currency: "KES",
		},
		Import: ImportConfig{
			Dir:      "import",
			Encoding: "utf-8",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 32,
			SessionTTL:  30 * time.Minute,
			MaxSessions: 1000,
		},
	}
}
