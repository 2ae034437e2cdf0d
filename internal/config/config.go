// Package config defines the configuration for the top-traders aggregation
// service and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by MOONFEED_* environment variables.
type Config struct {
	Providers ProvidersConfig `toml:"providers"`
	Cache     CacheConfig     `toml:"cache"`
	Traders   TradersConfig   `toml:"traders"`
	LogLevel  string          `toml:"log_level"`
}

// ProvidersConfig holds upstream data-provider endpoints and limits.
type ProvidersConfig struct {
	SolanaTrackerHost   string   `toml:"solana_tracker_host"`
	SolanaTrackerAPIKey string   `toml:"solana_tracker_api_key"`
	SolanaTrackerLimit  int      `toml:"solana_tracker_limit"`
	GeckoTerminalHost   string   `toml:"geckoterminal_host"`
	GeckoTradeLimit     int      `toml:"gecko_trade_limit"`
	DexScreenerHost     string   `toml:"dexscreener_host"`
	HeliusRPCURL        string   `toml:"helius_rpc_url"`
	Timeout             duration `toml:"timeout"`      // per-adapter call budget
	RatePerSec          float64  `toml:"rate_per_sec"` // outbound rate limit per provider
	RateBurst           int      `toml:"rate_burst"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Backend string      `toml:"backend"` // "memory" or "redis"
	TTL     duration    `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// TradersConfig holds ranking thresholds and guard bounds.
type TradersConfig struct {
	TopN                 int     `toml:"top_n"`
	MinVolumeUsd         float64 `toml:"min_volume_usd"`          // dust filter
	MaxAbsProfitUsd      float64 `toml:"max_abs_profit_usd"`      // outlier filter
	MaxTradeUsd          float64 `toml:"max_trade_usd"`           // single-tick anomaly ceiling
	MinEstimateVolumeUsd float64 `toml:"min_estimate_volume_usd"` // activity floor for the estimated tier
}

// Defaults returns the built-in default configuration.
func Defaults() Config {
	return Config{
		Providers: ProvidersConfig{
			SolanaTrackerHost:  "https://data.solanatracker.io",
			SolanaTrackerLimit: 300,
			GeckoTerminalHost:  "https://api.geckoterminal.com",
			GeckoTradeLimit:    200,
			DexScreenerHost:    "https://api.dexscreener.com",
			HeliusRPCURL:       "https://mainnet.helius-rpc.com",
			Timeout:            duration{8 * time.Second},
			RatePerSec:         5,
			RateBurst:          10,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     duration{3 * time.Minute},
			Redis: RedisConfig{
				Addr:       "localhost:6379",
				DB:         0,
				PoolSize:   20,
				MaxRetries: 3,
			},
		},
		Traders: TradersConfig{
			TopN:                 20,
			MinVolumeUsd:         50,
			MaxAbsProfitUsd:      10_000_000,
			MaxTradeUsd:          25_000_000,
			MinEstimateVolumeUsd: 1_000,
		},
		LogLevel: "info",
	}
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validCacheBackends = map[string]bool{
	"memory": true, "redis": true,
}

// Validate checks the configuration for internal consistency. It returns a
// single error listing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Providers.SolanaTrackerHost == "" {
		errs = append(errs, "providers: solana_tracker_host must not be empty")
	}
	if c.Providers.GeckoTerminalHost == "" {
		errs = append(errs, "providers: geckoterminal_host must not be empty")
	}
	if c.Providers.DexScreenerHost == "" {
		errs = append(errs, "providers: dexscreener_host must not be empty")
	}
	if c.Providers.SolanaTrackerLimit <= 0 || c.Providers.SolanaTrackerLimit > 300 {
		errs = append(errs, "providers: solana_tracker_limit must be in (0, 300]")
	}
	if c.Providers.GeckoTradeLimit <= 0 || c.Providers.GeckoTradeLimit > 300 {
		errs = append(errs, "providers: gecko_trade_limit must be in (0, 300]")
	}
	if c.Providers.Timeout.Duration <= 0 {
		errs = append(errs, "providers: timeout must be positive")
	}
	if c.Providers.RatePerSec <= 0 {
		errs = append(errs, "providers: rate_per_sec must be positive")
	}

	if !validCacheBackends[strings.ToLower(c.Cache.Backend)] {
		errs = append(errs, fmt.Sprintf("cache: unknown backend %q (valid: memory, redis)", c.Cache.Backend))
	}
	if c.Cache.TTL.Duration <= 0 {
		errs = append(errs, "cache: ttl must be positive")
	}
	if strings.ToLower(c.Cache.Backend) == "redis" && c.Cache.Redis.Addr == "" {
		errs = append(errs, "cache: redis.addr must not be empty when backend is redis")
	}

	if c.Traders.TopN <= 0 {
		errs = append(errs, "traders: top_n must be positive")
	}
	if c.Traders.MinVolumeUsd < 0 {
		errs = append(errs, "traders: min_volume_usd must not be negative")
	}
	if c.Traders.MaxAbsProfitUsd <= 0 {
		errs = append(errs, "traders: max_abs_profit_usd must be positive")
	}
	if c.Traders.MaxTradeUsd <= 0 {
		errs = append(errs, "traders: max_trade_usd must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// duration wraps time.Duration so TOML files can use strings like "3m".
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
