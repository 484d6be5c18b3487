// Package config loads runtime configuration from the environment with
// validation and warn-and-fallback semantics: a bad value never aborts
// startup, it falls back to the default and surfaces a warning the
// caller can log.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadResult is the outcome of loading one configuration value.
// Value holds the loaded (or fallback) value; Warnings carries one
// message per fallback applied.
type LoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString reads a string environment variable, returning the
// default when unset. No validation.
//
//	key := LoadEnvString("NEWSORG_API_KEY", "")
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvWithFallback reads a string environment variable and validates
// it. On validation failure the default is used and a warning recorded;
// an unset variable uses the default silently.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) LoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return LoadResult{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return LoadResult{
				Value:           defaultValue,
				Warnings:        []string{fallbackWarning(envKey, value, err, defaultValue)},
				FallbackApplied: true,
			}
		}
	}

	return LoadResult{Value: value}
}

// LoadEnvDuration reads a Go duration string ("5s", "1m30s") from the
// environment, with optional validation of the parsed value.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return LoadResult{Value: defaultValue}
	}

	parsed, err := time.ParseDuration(valueStr)
	if err != nil {
		return LoadResult{
			Value:           defaultValue,
			Warnings:        []string{fallbackWarning(envKey, valueStr, err, defaultValue)},
			FallbackApplied: true,
		}
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return LoadResult{
				Value:           defaultValue,
				Warnings:        []string{fallbackWarning(envKey, valueStr, err, defaultValue)},
				FallbackApplied: true,
			}
		}
	}

	return LoadResult{Value: parsed}
}

// LoadEnvInt reads an integer from the environment, with optional
// validation of the parsed value.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return LoadResult{Value: defaultValue}
	}

	parsed, err := strconv.Atoi(valueStr)
	if err != nil {
		return LoadResult{
			Value:           defaultValue,
			Warnings:        []string{fallbackWarning(envKey, valueStr, err, defaultValue)},
			FallbackApplied: true,
		}
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return LoadResult{
				Value:           defaultValue,
				Warnings:        []string{fallbackWarning(envKey, valueStr, err, defaultValue)},
				FallbackApplied: true,
			}
		}
	}

	return LoadResult{Value: parsed}
}

// LoadEnvBool reads a boolean ("true", "1", "false", "0") from the
// environment. Unparsable values fall back with a warning.
func LoadEnvBool(envKey string, defaultValue bool) LoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return LoadResult{Value: defaultValue}
	}

	parsed, err := strconv.ParseBool(valueStr)
	if err != nil {
		return LoadResult{
			Value:           defaultValue,
			Warnings:        []string{fallbackWarning(envKey, valueStr, err, defaultValue)},
			FallbackApplied: true,
		}
	}

	return LoadResult{Value: parsed}
}

func fallbackWarning(envKey, value string, err error, defaultValue any) string {
	return fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'",
		envKey, value, err, defaultValue)
}
