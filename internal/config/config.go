package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auction   AuctionConfig   `yaml:"auction"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds event store settings.
type DatabaseConfig struct {
	// Driver selects the audit event store backend: "memory" or "sqlite".
	Driver string `yaml:"driver"`
	// DSN is the sqlite data source. The default keeps the audit log
	// in-process only; session state never survives a restart.
	DSN string `yaml:"dsn"`
}

// AuctionConfig holds auction session rules.
type AuctionConfig struct {
	MinTeams         int `yaml:"min_teams"`
	MaxTeams         int `yaml:"max_teams"`
	MinBudget        int `yaml:"min_budget"`
	CountdownSeconds int `yaml:"countdown_seconds"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	Insecure       bool   `yaml:"insecure"`
}

// Load reads a YAML configuration file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration defaults used when fields are omitted.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: "memory",
			DSN:    "file::memory:?cache=shared",
		},
		Auction: AuctionConfig{
			MinTeams:         2,
			MaxTeams:         12,
			MinBudget:        100,
			CountdownSeconds: 60,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "auctiond",
			ServiceVersion: "0.1.0",
		},
	}
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "memory", "sqlite":
		// valid
	default:
		return fmt.Errorf("unsupported store driver %q: must be \"memory\" or \"sqlite\"", c.Database.Driver)
	}
	if c.Auction.MinTeams < 2 {
		return fmt.Errorf("auction.min_teams must be at least 2, got %d", c.Auction.MinTeams)
	}
	if c.Auction.MaxTeams < c.Auction.MinTeams {
		return fmt.Errorf("auction.max_teams (%d) must be >= auction.min_teams (%d)", c.Auction.MaxTeams, c.Auction.MinTeams)
	}
	if c.Auction.MinBudget < 0 {
		return fmt.Errorf("auction.min_budget must be non-negative, got %d", c.Auction.MinBudget)
	}
	if c.Auction.CountdownSeconds <= 0 {
		return fmt.Errorf("auction.countdown_seconds must be positive, got %d", c.Auction.CountdownSeconds)
	}
	return nil
}
