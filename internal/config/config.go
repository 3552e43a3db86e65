// Package config loads runtime configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings.
type Config struct {
	// Storage
	PostgresDSN   string `env:"POSTGRES_DSN"`
	ClickhouseDSN string `env:"CLICKHOUSE_DSN"`
	RedisAddr     string `env:"REDIS_ADDR"`
	UseMemory     bool   `env:"USE_MEMORY_STORE" envDefault:"false"`

	// Upstream APIs
	DexScreenerURL  string `env:"DEXSCREENER_URL" envDefault:"https://api.dexscreener.com"`
	RugCheckURL     string `env:"RUGCHECK_URL" envDefault:"https://api.rugcheck.xyz"`
	AlertWebhookURL string `env:"ALERT_WEBHOOK_URL"`

	// Chain
	ChainID string `env:"CHAIN_ID" envDefault:"solana"`

	// Cycle
	CycleInterval    time.Duration `env:"CYCLE_INTERVAL" envDefault:"5m"`
	FreshnessWindow  time.Duration `env:"FRESHNESS_WINDOW" envDefault:"1h"`
	MaxPairsPerCycle int           `env:"MAX_PAIRS_PER_CYCLE" envDefault:"30"`
	PairDelay        time.Duration `env:"PAIR_DELAY" envDefault:"500ms"`

	// Rate limiting (applied per upstream client)
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"30"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	// Risk report cache
	RiskCacheTTL time.Duration `env:"RISK_CACHE_TTL" envDefault:"30m"`

	// Admin HTTP server
	AdminAddr string `env:"ADMIN_ADDR" envDefault:":8080"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment
// variables take precedence over it.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Validate checks internal consistency.
func (c *Config) Validate() error {
	var errs []error

	if !c.UseMemory && c.PostgresDSN == "" {
		errs = append(errs, errors.New("POSTGRES_DSN is required unless USE_MEMORY_STORE=true"))
	}
	if c.CycleInterval <= 0 {
		errs = append(errs, errors.New("CYCLE_INTERVAL must be positive"))
	}
	if c.FreshnessWindow <= 0 {
		errs = append(errs, errors.New("FRESHNESS_WINDOW must be positive"))
	}
	if c.MaxPairsPerCycle <= 0 {
		errs = append(errs, errors.New("MAX_PAIRS_PER_CYCLE must be positive"))
	}
	if c.PairDelay < 0 {
		errs = append(errs, errors.New("PAIR_DELAY must not be negative"))
	}
	if c.RateLimitRequests <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS must be positive"))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}

	return errors.Join(errs...)
}
