// Package config loads service configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	yaml "gopkg.in/yaml.v3"
)

// SolverConfig carries the default heuristic parameters used when a
// solve request leaves its options empty.
type SolverConfig struct {
	Strategy string  `yaml:"strategy"`
	Init     string  `yaml:"init"`
	Lambda   float64 `yaml:"lambda"`
	MaxMoves int     `yaml:"maxMoves"`
}

// RateLimitConfig bounds solve request throughput per process.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Config is the full service configuration.
type Config struct {
	Addr        string          `yaml:"addr"`
	DatabaseURL string          `yaml:"databaseUrl"`
	RedisURL    string          `yaml:"redisUrl"`
	RateLimit   RateLimitConfig `yaml:"rateLimit"`
	Solver      SolverConfig    `yaml:"solver"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr: ":8080",
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 20,
		},
		Solver: SolverConfig{
			Strategy: "basic",
			Init:     "none",
			Lambda:   0,
			MaxMoves: 0,
		},
	}
}

// Load reads path (when non-empty) over the defaults, then applies
// environment overrides: PORT, DATABASE_URL, REDIS_URL, RATE_RPS,
// RATE_BURST.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimit.Burst = n
		}
	}
	return cfg, nil
}
