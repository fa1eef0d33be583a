// Package config loads editor settings from defaults, an optional TOML file
// and environment variables, in that order of precedence (lowest first).
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor-mcp/internal/editor"
)

// Environment variables read by Load.
const (
	EnvConfigPath   = "IMAGE_EDITOR_CONFIG"
	EnvMaxDimension = "IMAGE_EDITOR_MAX_DIMENSION"
	EnvHistoryLimit = "IMAGE_EDITOR_HISTORY_LIMIT"
	EnvBackground   = "IMAGE_EDITOR_BACKGROUND"
	EnvLogLevel     = "IMAGE_EDITOR_LOG_LEVEL"
	EnvLogFormat    = "IMAGE_EDITOR_LOG_FORMAT"
)

// Config holds the editor settings.
type Config struct {
	// MaxLoadDimension bounds width and height of opened images.
	MaxLoadDimension int `toml:"max_load_dimension"`

	// HistoryLimit caps the undo depth; 0 means unbounded.
	HistoryLimit int `toml:"history_limit"`

	// RotateBackground is the "#RRGGBB" fill for corners exposed by rotation.
	RotateBackground string `toml:"rotate_background"`

	// LogLevel is a logrus level name: debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `toml:"log_format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		MaxLoadDimension: editor.DefaultMaxLoadDimension,
		HistoryLimit:     0,
		RotateBackground: "#000000",
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load builds the configuration. If path is empty, the IMAGE_EDITOR_CONFIG
// environment variable is consulted; if that is empty too, no file is read.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvMaxDimension); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxDimension, err)
		}
		c.MaxLoadDimension = n
	}
	if v := os.Getenv(EnvHistoryLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHistoryLimit, err)
		}
		c.HistoryLimit = n
	}
	if v := os.Getenv(EnvBackground); v != "" {
		c.RotateBackground = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.MaxLoadDimension < 1 {
		return fmt.Errorf("max_load_dimension must be at least 1, got %d", c.MaxLoadDimension)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit)
	}
	if _, err := c.Background(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Background parses RotateBackground into an opaque color.
func (c *Config) Background() (color.Color, error) {
	col, err := colorful.Hex(c.RotateBackground)
	if err != nil {
		return nil, fmt.Errorf("invalid rotate_background %q: %w", c.RotateBackground, err)
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// EngineOptions converts the settings into editor options.
func (c *Config) EngineOptions() (editor.Options, error) {
	bg, err := c.Background()
	if err != nil {
		return editor.Options{}, err
	}
	return editor.Options{
		MaxLoadDimension: c.MaxLoadDimension,
		HistoryLimit:     c.HistoryLimit,
		Background:       bg,
	}, nil
}

// NewLogger creates a logrus logger writing to stderr; stdout carries the
// MCP protocol. Debug level uses the text formatter with full timestamps.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.ToLower(c.LogFormat) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return logger
}
