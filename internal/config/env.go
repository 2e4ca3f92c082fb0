package config

import (
	"os"
	"strconv"
	"time"
)

// EnvString gets an environment variable as a string with a default value.
func EnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// EnvInt gets an environment variable as an integer with a default value.
func EnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// EnvFloat gets an environment variable as a float with a default value.
func EnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// EnvFloatPtr is EnvFloat for optional settings: an unset or unparsable
// variable leaves defaultValue untouched.
func EnvFloatPtr(key string, defaultValue *float64) *float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return &f
		}
	}
	return defaultValue
}

// EnvBool gets an environment variable as a boolean with a default value.
func EnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// EnvDuration gets an environment variable as a duration with a default value.
func EnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
