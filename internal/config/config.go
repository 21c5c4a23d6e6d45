package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultServerURL            = "http://localhost:4000/api"
	DefaultPollMillis           = 2000
	DefaultRequestTimeoutMillis = 10000
)

// Config represents the global ~/.amora/config.toml.
type Config struct {
	ServerURL        string `toml:"server_url"`
	DefaultProfile   string `toml:"default_profile"`
	PollIntervalMs   int    `toml:"poll_interval_ms"`
	RequestTimeoutMs int    `toml:"request_timeout_ms"`
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Resolve loads config from path, applies environment overrides
// (AMORA_SERVER_URL, AMORA_POLL_INTERVAL_MS) and fills defaults.
// A missing config file is not an error; defaults apply.
func Resolve(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = &Config{}
	}
	if v := os.Getenv("AMORA_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("AMORA_POLL_INTERVAL_MS"); v != "" {
		if ms, convErr := strconv.Atoi(v); convErr == nil && ms > 0 {
			cfg.PollIntervalMs = ms
		}
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.PollIntervalMs <= 0 {
		cfg.PollIntervalMs = DefaultPollMillis
	}
	if cfg.RequestTimeoutMs <= 0 {
		cfg.RequestTimeoutMs = DefaultRequestTimeoutMillis
	}
	return cfg
}

// PollInterval returns the message poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}
