// Package config loads service configuration from a TOML file, layered
// with environment variable overrides and CLI flag defaults in an
// envOrDefault style.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the full set of knobs cmd/storage-server needs to start.
type Config struct {
	HTTPAddr string `toml:"http_addr"`
	Postgres struct {
		DSN string `toml:"dsn"`
	} `toml:"postgres"`
	LogLevel  string `toml:"log_level"`
	InMemory  bool   `toml:"in_memory"`
}

// Default returns the configuration used when no file and no environment
// overrides are supplied.
func Default() Config {
	var c Config
	c.HTTPAddr = ":8080"
	c.LogLevel = "info"
	c.InMemory = true
	return c
}

// Load reads path (if non-empty and present) into a Default() base, then
// applies environment variable overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("STORAGE_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("STORAGE_POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
		cfg.InMemory = false
	}
	if v := os.Getenv("STORAGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}
