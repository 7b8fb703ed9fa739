// Package config loads the sellscalehood YAML configuration and applies
// environment variable overrides.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration shared by the TUI client and the
// collaborator service.
type Config struct {
	Client  Client  `yaml:"client"`
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	Quotes  Quotes  `yaml:"quotes"`
	Tickers Tickers `yaml:"tickers"`
	Logging Logging `yaml:"logging"`
}

// Client configures the API client used by the TUI.
type Client struct {
	BaseURL string `yaml:"base_url"`
}

// Server holds the network listener configuration for the collaborator
// service.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Storage selects the holdings store backend.
type Storage struct {
	SQLitePath string `yaml:"sqlite_path"`
	Memory     bool   `yaml:"memory"`
}

// Quotes controls the upstream quote source.
type Quotes struct {
	RetryAttempts   int `yaml:"retry_attempts"`
	RateLimitPerMin int `yaml:"rate_limit_per_min"`
	HistoryDays     int `yaml:"history_days"`
}

// Tickers points at an optional exchange listing CSV supplying the ticker
// universe. Empty means the bundled default list.
type Tickers struct {
	CSVPath string `yaml:"csv_path"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	cfg := &Config{
		Client:  Client{BaseURL: "http://localhost:5001"},
		Server:  Server{Host: "0.0.0.0", Port: 5001},
		Storage: Storage{SQLitePath: "sellscalehood.db"},
		Quotes:  Quotes{RetryAttempts: 3, RateLimitPerMin: 60, HistoryDays: 30},
		Logging: Logging{Level: "info", Format: "json"},
	}
	applyEnvOverrides(cfg)
	return cfg
}

// Load reads the YAML file at path over the defaults and then applies
// environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Client:  Client{BaseURL: "http://localhost:5001"},
		Server:  Server{Host: "0.0.0.0", Port: 5001},
		Storage: Storage{SQLitePath: "sellscalehood.db"},
		Quotes:  Quotes{RetryAttempts: 3, RateLimitPerMin: 60, HistoryDays: 30},
		Logging: Logging{Level: "info", Format: "json"},
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding fields when set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.Client.BaseURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("TICKERS_CSV"); v != "" {
		cfg.Tickers.CSVPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
}
