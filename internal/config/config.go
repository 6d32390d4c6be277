package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// OCR contains extraction defaults.
type OCR struct {
	// Language is the engine language code (e.g. "eng").
	Language string `toml:"language"`

	// AccurateTimeout bounds one accuracy-first extraction, in seconds.
	AccurateTimeout int `toml:"accurate_timeout"`

	// FastTimeout bounds one latency-first extraction, in seconds.
	FastTimeout int `toml:"fast_timeout"`

	// BatchTimeout bounds each image of a batch, in seconds.
	BatchTimeout int `toml:"batch_timeout"`

	// Enhance applies document contrast/sharpen enhancement in the
	// accurate profile.
	Enhance bool `toml:"enhance"`
}

// Cleanup contains helper-process cleanup configuration.
type Cleanup struct {
	// Enabled switches orphaned-process cleanup on timeout. Off, the
	// guard only stops waiting.
	Enabled bool `toml:"enabled"`

	// ProcessName is the executable-name substring used to track
	// helper processes.
	ProcessName string `toml:"process_name"`

	// GraceSeconds is how long to wait for a terminated helper to
	// exit before giving up on it.
	GraceSeconds int `toml:"grace_seconds"`
}

// Logging contains logger configuration.
type Logging struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`
}

// Config is the root configuration for the CLI and server.
type Config struct {
	OCR     OCR     `toml:"ocr"`
	Cleanup Cleanup `toml:"cleanup"`
	Logging Logging `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OCR: OCR{
			Language:        "eng",
			AccurateTimeout: 15,
			FastTimeout:     8,
			BatchTimeout:    10,
		},
		Cleanup: Cleanup{
			Enabled:      true,
			ProcessName:  "tesseract",
			GraceSeconds: 2,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load reads the TOML file at path over the defaults. An empty path
// returns the defaults unchanged; a missing file is an error so typos
// in --config do not silently fall back.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the rest of the system
// cannot operate with.
func (c *Config) Validate() error {
	if c.OCR.Language == "" {
		return errors.New("ocr.language must not be empty")
	}
	if c.OCR.AccurateTimeout <= 0 {
		return fmt.Errorf("ocr.accurate_timeout must be positive, got %d", c.OCR.AccurateTimeout)
	}
	if c.OCR.FastTimeout <= 0 {
		return fmt.Errorf("ocr.fast_timeout must be positive, got %d", c.OCR.FastTimeout)
	}
	if c.OCR.BatchTimeout <= 0 {
		return fmt.Errorf("ocr.batch_timeout must be positive, got %d", c.OCR.BatchTimeout)
	}
	if c.Cleanup.Enabled && c.Cleanup.ProcessName == "" {
		return errors.New("cleanup.process_name must not be empty when cleanup is enabled")
	}
	if c.Cleanup.GraceSeconds < 0 {
		return fmt.Errorf("cleanup.grace_seconds must not be negative, got %d", c.Cleanup.GraceSeconds)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// AccurateTimeoutDuration returns ocr.accurate_timeout as a Duration.
func (c *Config) AccurateTimeoutDuration() time.Duration {
	return time.Duration(c.OCR.AccurateTimeout) * time.Second
}

// FastTimeoutDuration returns ocr.fast_timeout as a Duration.
func (c *Config) FastTimeoutDuration() time.Duration {
	return time.Duration(c.OCR.FastTimeout) * time.Second
}

// BatchTimeoutDuration returns ocr.batch_timeout as a Duration.
func (c *Config) BatchTimeoutDuration() time.Duration {
	return time.Duration(c.OCR.BatchTimeout) * time.Second
}

// GraceDuration returns cleanup.grace_seconds as a Duration.
func (c *Config) GraceDuration() time.Duration {
	return time.Duration(c.Cleanup.GraceSeconds) * time.Second
}
