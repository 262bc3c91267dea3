// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvMaxSteps      = "OBJECT_MCP_MAX_STEPS"
	EnvMaxCoord      = "OBJECT_MCP_MAX_COORD"
	EnvMatchWorkers  = "OBJECT_MCP_MATCH_WORKERS"
	EnvSearchTimeout = "OBJECT_MCP_SEARCH_TIMEOUT"
	EnvFormulaFile   = "OBJECT_MCP_FORMULA_FILE"
	EnvPresetFile    = "OBJECT_MCP_PRESET_FILE"
	EnvDatabaseFile  = "OBJECT_MCP_DATABASE_FILE"
	EnvLogLevel      = "OBJECT_MCP_LOG_LEVEL"
	EnvLogFormat     = "OBJECT_MCP_LOG_FORMAT"
)

// Config holds server configuration.
type Config struct {
	// Search bounds
	MaxSteps int
	MaxCoord int

	// Matching
	MatchWorkers  int
	SearchTimeout time.Duration

	// Persistence. Empty paths disable the corresponding file.
	FormulaFile  string
	PresetFile   string
	DatabaseFile string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads an optional dotenv file and then the environment. Variables
// already set in the environment win over the file. A missing dotenv file is
// not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		FormulaFile:  os.Getenv(EnvFormulaFile),
		PresetFile:   os.Getenv(EnvPresetFile),
		DatabaseFile: os.Getenv(EnvDatabaseFile),
		LogLevel:     getEnvOrDefault(EnvLogLevel, "info"),
		LogFormat:    getEnvOrDefault(EnvLogFormat, "json"),
	}

	var err error
	if cfg.MaxSteps, err = getEnvAsIntOrDefault(EnvMaxSteps, 1000); err != nil {
		return nil, err
	}
	if cfg.MaxCoord, err = getEnvAsIntOrDefault(EnvMaxCoord, 10000); err != nil {
		return nil, err
	}
	if cfg.MatchWorkers, err = getEnvAsIntOrDefault(EnvMatchWorkers, runtime.GOMAXPROCS(0)); err != nil {
		return nil, err
	}
	if cfg.SearchTimeout, err = getEnvAsDurationOrDefault(EnvSearchTimeout, 2*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks if configuration is valid.
func (c *Config) Validate() error {
	if c.MaxSteps < 1 || c.MaxSteps > 1000000 {
		return fmt.Errorf("%s must be between 1 and 1000000, got %d", EnvMaxSteps, c.MaxSteps)
	}
	if c.MaxCoord < 1 {
		return fmt.Errorf("%s must be positive, got %d", EnvMaxCoord, c.MaxCoord)
	}
	if c.MatchWorkers < 1 || c.MatchWorkers > 256 {
		return fmt.Errorf("%s must be between 1 and 256, got %d", EnvMatchWorkers, c.MatchWorkers)
	}
	if c.SearchTimeout < 0 {
		return fmt.Errorf("%s must not be negative, got %s", EnvSearchTimeout, c.SearchTimeout)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("%s must be json or console, got %q", EnvLogFormat, c.LogFormat)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, valueStr)
	}
	return value, nil
}

// getEnvAsDurationOrDefault accepts Go durations ("90s") or whole seconds.
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a duration", key, valueStr)
	}
	return value, nil
}
