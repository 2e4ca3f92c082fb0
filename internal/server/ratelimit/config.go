package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := config.EnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    config.EnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   config.EnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		Whitelist:       parseIPList(config.EnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(config.EnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	exportLimit := config.EnvInt("RATE_LIMIT_EXPORT_LIMIT", 20)
	exportWindow := config.EnvDuration("RATE_LIMIT_EXPORT_WINDOW", time.Hour)

	return []EndpointConfig{
		// Tier 1: browser captures (strictest limits)
		{Path: "/api/export", Method: "POST", Limit: exportLimit, Window: exportWindow},

		// Tier 2: photo decoding
		{Path: "/api/presentation/photo", Method: "PUT", Limit: 60, Window: time.Minute},
		{Path: "/api/presentation/photo", Method: "POST", Limit: 60, Window: time.Minute},

		// Tier 3: everything else - handled by default limit
		// Tier 4: health check (unlimited) - handled by special case in matcher
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}
