package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Extraction ExtractionConfig
	Session    SessionConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractionConfig holds tuning knobs for the extraction engine
type ExtractionConfig struct {
	// PrefixBoost is added to a candidate's confidence when a keyword
	// prefix such as "BEST BY" anchored the match.
	PrefixBoost        float64 `mapstructure:"prefix_boost"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// SessionConfig holds configuration for live scanning sessions
type SessionConfig struct {
	DebounceDelay   time.Duration `mapstructure:"debounce_delay"`
	LedgerStep      float64       `mapstructure:"ledger_step"`
	SelectThreshold float64       `mapstructure:"select_threshold"`
	HistoryCapacity int           `mapstructure:"history_capacity"`
	IdleTTL         time.Duration `mapstructure:"idle_ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per second per client IP
	Burst int `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pantrylens/")

	// Environment variable settings
	v.SetEnvPrefix("PANTRYLENS")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Extraction defaults
	v.SetDefault("extraction.prefix_boost", 0.10)
	v.SetDefault("extraction.enable_debug_logging", false)

	// Session defaults
	v.SetDefault("session.debounce_delay", "100ms")
	v.SetDefault("session.ledger_step", 0.15)
	v.SetDefault("session.select_threshold", 0.6)
	v.SetDefault("session.history_capacity", 20)
	v.SetDefault("session.idle_ttl", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 50)
	v.SetDefault("ratelimit.burst", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Session.LedgerStep <= 0 || config.Session.LedgerStep > 1 {
		return fmt.Errorf("session ledger step must be in (0, 1], got: %v", config.Session.LedgerStep)
	}

	if config.Session.SelectThreshold <= 0 || config.Session.SelectThreshold > 1 {
		return fmt.Errorf("session select threshold must be in (0, 1], got: %v", config.Session.SelectThreshold)
	}

	if config.Session.HistoryCapacity <= 0 {
		return fmt.Errorf("session history capacity must be positive, got: %d", config.Session.HistoryCapacity)
	}

	if config.Session.DebounceDelay < 0 {
		return fmt.Errorf("session debounce delay must not be negative, got: %v", config.Session.DebounceDelay)
	}

	return nil
}
