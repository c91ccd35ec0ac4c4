package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	HTTP          HTTPConfig          `yaml:"http"`
	NATS          NATSConfig          `yaml:"nats"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// DatabaseConfig holds Postgres configuration. Driver is "pgdriver" or "pgx".
type DatabaseConfig struct {
	DSN    string `yaml:"dsn"`
	Driver string `yaml:"driver"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
}

// NATSConfig holds NATS configuration. An empty URL keeps events in-process.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	Environment    string `yaml:"environment"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

const (
	DriverPG  = "pgdriver"
	DriverPGX = "pgx"
)

// Defaults returns a config with every optional setting filled in.
func Defaults() Config {
	return Config{
		Database: DatabaseConfig{Driver: DriverPG},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			RateLimitRPS:   5,
			RateLimitBurst: 10,
		},
		Observability: ObservabilityConfig{
			LogLevel:       "info",
			Environment:    "development",
			MetricsEnabled: true,
		},
	}
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	cfg := Defaults()

	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv(cfg)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv(cfg Config) (*Config, error) {
	if os.Getenv("DATABASE_URL") == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides cfg with any environment variables that are set.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Observability.MetricsEnabled = v == "true"
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.HTTP.AllowedOrigins = origins
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS value: %v", err)
		}
		cfg.HTTP.RateLimitRPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_BURST value: %v", err)
		}
		cfg.HTTP.RateLimitBurst = n
	}
	return nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	switch c.Database.Driver {
	case DriverPG, DriverPGX:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.HTTP.RateLimitRPS <= 0 || c.HTTP.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	return nil
}

// SlogLevel maps the configured level name; unknown names mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Observability.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
