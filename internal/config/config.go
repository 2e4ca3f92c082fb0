// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

// Config represents settings that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment or Defaults.
type Config struct {
	// Server
	Port         int  `json:"port,omitempty"`
	SecureCookie bool `json:"secure_cookie,omitempty"` // Mark the session cookie Secure (HTTPS only)

	// Session start
	DefaultTemplate string `json:"default_template,omitempty"` // modern, classic or elegant
	DefaultTheme    string `json:"default_theme,omitempty"`    // blue, green, pink or light
	SessionTTL      string `json:"session_ttl,omitempty"`      // Idle lifetime, e.g. "24h"
	MaxPhotoBytes   int    `json:"max_photo_bytes,omitempty"`

	// Export
	CaptureScale          float64  `json:"capture_scale,omitempty"`   // Device scale factor for the capture
	PageMargin            *float64 `json:"page_margin,omitempty"`     // Points on each side of the image; 0 is a valid margin
	CaptureTimeout        string   `json:"capture_timeout,omitempty"` // e.g. "30s"
	MaxConcurrentCaptures int      `json:"max_concurrent_captures,omitempty"`
	ChromePath            string   `json:"chrome_path,omitempty"` // Browser binary; discovered on PATH when empty

	// Redis snapshot mirror (disabled when RedisAddr is empty)
	RedisAddr     string `json:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty"`

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

const defaultPageMargin = 20

// Float returns a pointer to v, for optional numeric settings where zero is meaningful.
func Float(v float64) *float64 {
	return &v
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:                  8080,
		DefaultTemplate:       string(types.DefaultTemplate),
		DefaultTheme:          string(types.DefaultTheme),
		SessionTTL:            "24h",
		MaxPhotoBytes:         5 << 20,
		CaptureScale:          2,
		PageMargin:            Float(defaultPageMargin),
		CaptureTimeout:        "30s",
		MaxConcurrentCaptures: 2,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: the optional JSON file at path,
// overridden by environment variables, with remaining gaps filled from Defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = *fileCfg
	}

	cfg = cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(Defaults())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv returns a copy of c with any set environment variables taking precedence.
func (c Config) ApplyEnv() Config {
	c.Port = EnvInt("PORT", c.Port)
	c.SecureCookie = EnvBool("SECURE_COOKIE", c.SecureCookie)
	c.DefaultTemplate = EnvString("RESUME_DEFAULT_TEMPLATE", c.DefaultTemplate)
	c.DefaultTheme = EnvString("RESUME_DEFAULT_THEME", c.DefaultTheme)
	c.SessionTTL = EnvString("SESSION_TTL", c.SessionTTL)
	c.MaxPhotoBytes = EnvInt("MAX_PHOTO_BYTES", c.MaxPhotoBytes)
	c.CaptureScale = EnvFloat("CAPTURE_SCALE", c.CaptureScale)
	c.PageMargin = EnvFloatPtr("PAGE_MARGIN", c.PageMargin)
	c.CaptureTimeout = EnvString("CAPTURE_TIMEOUT", c.CaptureTimeout)
	c.MaxConcurrentCaptures = EnvInt("MAX_CONCURRENT_CAPTURES", c.MaxConcurrentCaptures)
	c.ChromePath = EnvString("CHROME_PATH", c.ChromePath)
	c.RedisAddr = EnvString("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = EnvString("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = EnvInt("REDIS_DB", c.RedisDB)
	c.Verbose = EnvBool("VERBOSE", c.Verbose)
	return c
}

// Validate checks that the configuration has valid values.
// Empty fields are accepted; they are filled by MergeWithDefaults.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxPhotoBytes < 0 {
		return fmt.Errorf("config error: 'max_photo_bytes' must be non-negative")
	}
	if c.CaptureScale < 0 {
		return fmt.Errorf("config error: 'capture_scale' must be non-negative")
	}
	if c.PageMargin != nil && *c.PageMargin < 0 {
		return fmt.Errorf("config error: 'page_margin' must be non-negative")
	}
	if c.MaxConcurrentCaptures < 0 {
		return fmt.Errorf("config error: 'max_concurrent_captures' must be non-negative")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("config error: 'redis_db' must be non-negative")
	}

	if c.DefaultTemplate != "" {
		if _, err := types.ParseTemplate(c.DefaultTemplate); err != nil {
			return fmt.Errorf("config error: 'default_template': %w", err)
		}
	}
	if c.DefaultTheme != "" {
		if _, err := types.ParseTheme(c.DefaultTheme); err != nil {
			return fmt.Errorf("config error: 'default_theme': %w", err)
		}
	}

	if c.SessionTTL != "" {
		if d, err := time.ParseDuration(c.SessionTTL); err != nil || d <= 0 {
			return fmt.Errorf("config error: 'session_ttl' must be a positive duration, got %q", c.SessionTTL)
		}
	}
	if c.CaptureTimeout != "" {
		if d, err := time.ParseDuration(c.CaptureTimeout); err != nil || d <= 0 {
			return fmt.Errorf("config error: 'capture_timeout' must be a positive duration, got %q", c.CaptureTimeout)
		}
	}

	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DefaultTemplate == "" {
		result.DefaultTemplate = defaults.DefaultTemplate
	}
	if result.DefaultTheme == "" {
		result.DefaultTheme = defaults.DefaultTheme
	}
	if result.SessionTTL == "" {
		result.SessionTTL = defaults.SessionTTL
	}
	if result.CaptureTimeout == "" {
		result.CaptureTimeout = defaults.CaptureTimeout
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.RedisPassword == "" {
		result.RedisPassword = defaults.RedisPassword
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxPhotoBytes == 0 {
		result.MaxPhotoBytes = defaults.MaxPhotoBytes
	}
	if result.CaptureScale == 0 {
		result.CaptureScale = defaults.CaptureScale
	}
	if result.PageMargin == nil {
		result.PageMargin = defaults.PageMargin
	}
	if result.MaxConcurrentCaptures == 0 {
		result.MaxConcurrentCaptures = defaults.MaxConcurrentCaptures
	}
	if result.RedisDB == 0 {
		result.RedisDB = defaults.RedisDB
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// PageMarginPoints returns the configured page margin, or 20 if unset.
func (c Config) PageMarginPoints() float64 {
	if c.PageMargin == nil {
		return defaultPageMargin
	}
	return *c.PageMargin
}

// SessionTTLDuration returns the parsed session TTL, or 24h if unset or invalid.
func (c Config) SessionTTLDuration() time.Duration {
	return parseDuration(c.SessionTTL, 24*time.Hour)
}

// CaptureTimeoutDuration returns the parsed capture timeout, or 30s if unset or invalid.
func (c Config) CaptureTimeoutDuration() time.Duration {
	return parseDuration(c.CaptureTimeout, 30*time.Second)
}

// Presentation returns the session-start template and theme.
func (c Config) Presentation() types.Presentation {
	p := types.NewPresentation()
	if t, err := types.ParseTemplate(c.DefaultTemplate); err == nil {
		p.Template = t
	}
	if t, err := types.ParseTheme(c.DefaultTheme); err == nil {
		p.Theme = t
	}
	return p
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}
