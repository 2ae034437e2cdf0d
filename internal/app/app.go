// Package app wires the top-traders service from configuration: upstream
// provider clients, the adapter chain in priority order, the result cache,
// and the price resolver.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/cache"
	cacheredis "github.com/Hauntedhams/Moonfeed-backend-sub000/internal/cache/redis"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/config"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/dexscreener"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/geckoterminal"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/helius"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/solanatracker"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/traders"
)

// App owns the wired service and a list of cleanup functions that are called
// in reverse order on shutdown.
type App struct {
	Service *traders.Service

	logger  *slog.Logger
	closers []func()
}

// New wires all dependencies from the configuration. The context is used for
// connection checks (Redis ping) only.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{logger: logger.With(slog.String("component", "app"))}

	p := cfg.Providers
	stClient := solanatracker.NewClient(p.SolanaTrackerHost, p.SolanaTrackerAPIKey, p.RatePerSec, p.RateBurst)
	gtClient := geckoterminal.NewClient(p.GeckoTerminalHost, p.RatePerSec, p.RateBurst)
	dxClient := dexscreener.NewClient(p.DexScreenerHost, p.RatePerSec, p.RateBurst)

	var heliusClient *helius.Client
	if p.HeliusRPCURL != "" {
		heliusClient = helius.NewClient(p.HeliusRPCURL)
	}

	resultCache, err := a.buildCache(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("app: build cache: %w", err)
	}

	t := cfg.Traders
	adapters := []traders.SourceAdapter{
		traders.NewSolanaTrackerAdapter(stClient, p.SolanaTrackerLimit, t.MaxTradeUsd),
		traders.NewGeckoTerminalAdapter(gtClient, p.GeckoTradeLimit),
		traders.NewEstimatedAdapter(dxClient, heliusClient, t.MinEstimateVolumeUsd, t.TopN),
		traders.NewDemoAdapter(t.TopN),
	}

	price := traders.NewCascadeResolver(gtClient, dxClient, logger)

	a.Service = traders.NewService(adapters, price, resultCache, p.Timeout.Duration, traders.RankConfig{
		TopN:            t.TopN,
		MinVolumeUsd:    t.MinVolumeUsd,
		MaxAbsProfitUsd: t.MaxAbsProfitUsd,
	}, logger)

	return a, nil
}

// buildCache selects the cache backend from configuration.
func (a *App) buildCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if strings.ToLower(cfg.Cache.Backend) != "redis" {
		return cache.NewMemory(cfg.Cache.TTL.Duration), nil
	}

	client, err := cacheredis.New(ctx, cacheredis.ClientConfig{
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		PoolSize:   cfg.Cache.Redis.PoolSize,
		MaxRetries: cfg.Cache.Redis.MaxRetries,
		TLSEnabled: cfg.Cache.Redis.TLSEnabled,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() {
		if err := client.Close(); err != nil {
			a.logger.Warn("closing redis", slog.String("error", err.Error()))
		}
	})

	return cacheredis.NewTraderCache(client, cfg.Cache.TTL.Duration), nil
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
