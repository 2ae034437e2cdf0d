package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies MOONFEED_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
//
// An empty path skips the file entirely and uses defaults plus environment
// overrides, which is the usual deployment shape (secrets come from env).
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known MOONFEED_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Providers ──
	setStr(&cfg.Providers.SolanaTrackerHost, "MOONFEED_SOLANA_TRACKER_HOST")
	setStr(&cfg.Providers.SolanaTrackerAPIKey, "MOONFEED_SOLANA_TRACKER_API_KEY")
	setStr(&cfg.Providers.SolanaTrackerAPIKey, "SOLANA_TRACKER_API_KEY") // compatibility alias
	setInt(&cfg.Providers.SolanaTrackerLimit, "MOONFEED_SOLANA_TRACKER_LIMIT")
	setStr(&cfg.Providers.GeckoTerminalHost, "MOONFEED_GECKOTERMINAL_HOST")
	setInt(&cfg.Providers.GeckoTradeLimit, "MOONFEED_GECKO_TRADE_LIMIT")
	setStr(&cfg.Providers.DexScreenerHost, "MOONFEED_DEXSCREENER_HOST")
	setStr(&cfg.Providers.HeliusRPCURL, "MOONFEED_HELIUS_RPC_URL")
	setStr(&cfg.Providers.HeliusRPCURL, "HELIUS_RPC_URL") // compatibility alias
	setDuration(&cfg.Providers.Timeout, "MOONFEED_PROVIDER_TIMEOUT")
	setFloat64(&cfg.Providers.RatePerSec, "MOONFEED_PROVIDER_RATE_PER_SEC")
	setInt(&cfg.Providers.RateBurst, "MOONFEED_PROVIDER_RATE_BURST")

	// ── Cache ──
	setStr(&cfg.Cache.Backend, "MOONFEED_CACHE_BACKEND")
	setDuration(&cfg.Cache.TTL, "MOONFEED_CACHE_TTL")
	setStr(&cfg.Cache.Redis.Addr, "MOONFEED_REDIS_ADDR")
	setStr(&cfg.Cache.Redis.Password, "MOONFEED_REDIS_PASSWORD")
	setInt(&cfg.Cache.Redis.DB, "MOONFEED_REDIS_DB")
	setInt(&cfg.Cache.Redis.PoolSize, "MOONFEED_REDIS_POOL_SIZE")
	setInt(&cfg.Cache.Redis.MaxRetries, "MOONFEED_REDIS_MAX_RETRIES")
	setBool(&cfg.Cache.Redis.TLSEnabled, "MOONFEED_REDIS_TLS_ENABLED")

	// ── Traders ──
	setInt(&cfg.Traders.TopN, "MOONFEED_TRADERS_TOP_N")
	setFloat64(&cfg.Traders.MinVolumeUsd, "MOONFEED_TRADERS_MIN_VOLUME_USD")
	setFloat64(&cfg.Traders.MaxAbsProfitUsd, "MOONFEED_TRADERS_MAX_ABS_PROFIT_USD")
	setFloat64(&cfg.Traders.MaxTradeUsd, "MOONFEED_TRADERS_MAX_TRADE_USD")
	setFloat64(&cfg.Traders.MinEstimateVolumeUsd, "MOONFEED_TRADERS_MIN_ESTIMATE_VOLUME_USD")

	// ── Misc ──
	setStr(&cfg.LogLevel, "MOONFEED_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
