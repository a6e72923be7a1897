// Package config loads application configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variables before they are
// mapped onto config keys: FACILITY_SIMULATOR_HISTORY_SIZE becomes
// simulator.history_size.
const envPrefix = "FACILITY_"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Simulator SimulatorConfig `koanf:"simulator"`
	Seed      SeedConfig      `koanf:"seed"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port" validate:"required"`
	MetricsPort       string        `koanf:"metrics_port" validate:"required,nefield=Port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// SimulatorConfig holds simulation engine settings.
type SimulatorConfig struct {
	BaseURL            string        `koanf:"base_url" validate:"required,url"`
	HistorySize        int           `koanf:"history_size" validate:"min=1"`
	GenerateInterval   time.Duration `koanf:"generate_interval" validate:"min=1s"`
	TransitionInterval time.Duration `koanf:"transition_interval" validate:"min=1s"`
	PruneInterval      time.Duration `koanf:"prune_interval" validate:"min=1s"`
}

// SeedConfig holds demo data settings.
type SeedConfig struct {
	FacilityName     string `koanf:"facility_name" validate:"required"`
	ResourcesPerType int    `koanf:"resources_per_type" validate:"min=1"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8080",
			MetricsPort:       "9090",
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Simulator: SimulatorConfig{
			BaseURL:            "http://localhost:8080/api/v1",
			HistorySize:        20,
			GenerateInterval:   30 * time.Minute,
			TransitionInterval: 30 * time.Second,
			PruneInterval:      30 * time.Minute,
		},
		Seed: SeedConfig{
			FacilityName:     "Research Computing Facility",
			ResourcesPerType: 3,
		},
	}
}

// Load reads configuration from the given YAML file (skipped when path
// is empty) and applies FACILITY_* environment overrides on top of the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// envToKey maps FACILITY_SERVER_METRICS_PORT to server.metrics_port.
// Only the first underscore becomes a section separator; the rest stay
// part of the key.
func envToKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}
