// Package config loads build configuration from an optional YAML file and
// environment variables. All variables use the QUIZ_ prefix.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultFile is read when QUIZ_CONFIG_FILE is not set.
const DefaultFile = "quizgen.yaml"

// Config holds all application configuration.
type Config struct {
	Build  BuildConfig  `yaml:"build"`
	Server ServerConfig `yaml:"server"`
	Watch  WatchConfig  `yaml:"watch"`
	Log    LogConfig    `yaml:"log"`
}

// BuildConfig holds input and output locations of a site build.
type BuildConfig struct {
	DataDir        string `yaml:"data_dir"`
	IndexFile      string `yaml:"index_file"` // relative to DataDir
	OutputDir      string `yaml:"output_dir"`
	Concurrency    int    `yaml:"concurrency"`
	ExportWorkbook bool   `yaml:"export_workbook"`
}

// ServerConfig holds dev server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WatchConfig holds data directory watcher settings.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// Debounce returns the debounce window as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() *Config {
	return &Config{
		Build: BuildConfig{
			DataDir:     "data",
			IndexFile:   "index.json",
			OutputDir:   "dist",
			Concurrency: 8,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Watch: WatchConfig{
			DebounceMS: 200,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// QUIZ_CONFIG_FILE (quizgen.yaml if unset; a missing file is ignored), then
// QUIZ_ environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	path := envStr("QUIZ_CONFIG_FILE", DefaultFile)
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.Build.DataDir = envStr("QUIZ_DATA_DIR", cfg.Build.DataDir)
	cfg.Build.IndexFile = envStr("QUIZ_INDEX_FILE", cfg.Build.IndexFile)
	cfg.Build.OutputDir = envStr("QUIZ_OUTPUT_DIR", cfg.Build.OutputDir)
	cfg.Build.Concurrency = envInt("QUIZ_BUILD_CONCURRENCY", cfg.Build.Concurrency)
	cfg.Build.ExportWorkbook = envBool("QUIZ_EXPORT_WORKBOOK", cfg.Build.ExportWorkbook)
	cfg.Server.Host = envStr("QUIZ_SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = envInt("QUIZ_SERVER_PORT", cfg.Server.Port)
	cfg.Watch.DebounceMS = envInt("QUIZ_WATCH_DEBOUNCE_MS", cfg.Watch.DebounceMS)
	cfg.Log.Level = envStr("QUIZ_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envStr("QUIZ_LOG_FORMAT", cfg.Log.Format)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration can drive a build.
func (c *Config) Validate() error {
	if c.Build.DataDir == "" {
		return fmt.Errorf("%w: QUIZ_DATA_DIR is required", ErrInvalidConfig)
	}
	if c.Build.IndexFile == "" {
		return fmt.Errorf("%w: QUIZ_INDEX_FILE is required", ErrInvalidConfig)
	}
	if c.Build.OutputDir == "" {
		return fmt.Errorf("%w: QUIZ_OUTPUT_DIR is required", ErrInvalidConfig)
	}
	if c.Build.Concurrency < 1 {
		return fmt.Errorf("%w: QUIZ_BUILD_CONCURRENCY must be positive, got %d", ErrInvalidConfig, c.Build.Concurrency)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: QUIZ_SERVER_PORT out of range: %d", ErrInvalidConfig, c.Server.Port)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("%w: QUIZ_WATCH_DEBOUNCE_MS must not be negative", ErrInvalidConfig)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: QUIZ_LOG_LEVEL must be debug, info, warn or error, got %q", ErrInvalidConfig, c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("%w: QUIZ_LOG_FORMAT must be 'json' or 'text', got %q", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
