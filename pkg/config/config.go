// Package config loads application configuration from files and
// environment variables via viper.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Remote graph service configuration
	Remote RemoteConfig `mapstructure:"remote"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Retry configuration for remote calls
	Retry RetryConfig `mapstructure:"retry"`

	// Seed configuration
	Seed SeedConfig `mapstructure:"seed"`

	// Query configuration
	Query QueryConfig `mapstructure:"query"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// RemoteConfig holds remote graph service configuration.
type RemoteConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Timeout  int    `mapstructure:"timeout"` // in seconds
}

// CircuitBreakerConfig holds configuration for circuit breaking.
// Disabled by default so every query re-attempts the remote path.
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// RetryConfig holds retry configuration for remote calls. Zero retries
// (the default) means a single attempt per call.
type RetryConfig struct {
	Retries    int `mapstructure:"retries"`
	RetryDelay int `mapstructure:"retry_delay"` // in seconds
}

// SeedConfig controls what knowledge the process starts with.
type SeedConfig struct {
	Defaults bool   `mapstructure:"defaults"` // load the baked-in domain seed
	Path     string `mapstructure:"path"`     // optional extra YAML seed file
}

// QueryConfig holds query behavior settings.
type QueryConfig struct {
	MaxResults int `mapstructure:"max_results"`
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8081)
	viper.SetDefault("server.mode", "release")

	// Remote graph service defaults
	viper.SetDefault("remote.endpoint", "http://localhost:8080")
	viper.SetDefault("remote.timeout", 10)

	// Circuit breaker defaults (off: every query is a fresh attempt)
	viper.SetDefault("circuit_breaker.enabled", false)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	// Retry defaults (off)
	viper.SetDefault("retry.retries", 0)
	viper.SetDefault("retry.retry_delay", 1)

	// Seed defaults
	viper.SetDefault("seed.defaults", true)
	viper.SetDefault("seed.path", "")

	// Query defaults
	viper.SetDefault("query.max_results", 10)
}

// overrideWithEnv overrides config with environment variables. The
// remote endpoint resolves METTA_SERVER_URL first, then METTA_ENDPOINT,
// keeping the configured (or default) value otherwise.
func overrideWithEnv(config *Config) {
	if url := os.Getenv("METTA_SERVER_URL"); url != "" {
		config.Remote.Endpoint = url
	} else if url := os.Getenv("METTA_ENDPOINT"); url != "" {
		config.Remote.Endpoint = url
	}

	if retries := os.Getenv("METTA_API_RETRIES"); retries != "" {
		if n, err := strconv.Atoi(retries); err == nil {
			config.Retry.Retries = n
		}
	}
	if delay := os.Getenv("METTA_API_RETRY_DELAY"); delay != "" {
		if n, err := strconv.Atoi(delay); err == nil {
			config.Retry.RetryDelay = n
		}
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			config.Server.Port = n
		}
	}

	if path := os.Getenv("SEED_PATH"); path != "" {
		config.Seed.Path = path
	}
}
