package main

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config describes a pipeline deployment. Values come from a YAML manifest
// with COMPOSE_* environment variables taking precedence.
type Config struct {
	// Pipeline lists handler aliases head first.
	Pipeline []string `yaml:"pipeline" env:"COMPOSE_PIPELINE" envSeparator:","`

	// Transport selects stdio, http or websocket.
	Transport string `yaml:"transport" env:"COMPOSE_TRANSPORT"`

	// Addr is the listen address for network transports.
	Addr string `yaml:"addr" env:"COMPOSE_ADDR"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level" env:"COMPOSE_LOG_LEVEL"`

	// Timeout bounds one traversal end to end. Zero disables it.
	Timeout time.Duration `yaml:"timeout" env:"COMPOSE_TIMEOUT"`

	// RateLimit caps traversals per second. Zero disables it.
	RateLimit int `yaml:"rate_limit" env:"COMPOSE_RATE_LIMIT"`
}

func defaultConfig() Config {
	return Config{
		Transport: "stdio",
		Addr:      ":8080",
		LogLevel:  "info",
	}
}

// loadConfig reads the manifest at path (optional) and applies environment
// overrides.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read manifest: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse manifest: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if len(cfg.Pipeline) == 0 {
		return cfg, fmt.Errorf("pipeline is empty: list at least one handler")
	}

	switch cfg.Transport {
	case "stdio", "http", "websocket":
	default:
		return cfg, fmt.Errorf("unknown transport %q", cfg.Transport)
	}

	return cfg, nil
}
