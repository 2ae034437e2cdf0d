package traders

import (
	"context"
	"log/slog"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/dexscreener"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/geckoterminal"
)

// PriceSource resolves the current USD price of a token. It returns the price
// and a label naming which source produced it. A zero price with an empty
// label means "no price available" -- that is a value, not an error, and
// disables the adapters that need a baseline price.
type PriceSource interface {
	Resolve(ctx context.Context, chain domain.Chain, tokenAddress string) (price float64, source string)
}

// CascadeResolver tries a short cascade of sources: the token's top
// GeckoTerminal pool price first, then the DexScreener token aggregate.
type CascadeResolver struct {
	gecko  *geckoterminal.Client
	dex    *dexscreener.Client
	logger *slog.Logger
}

// NewCascadeResolver creates a price resolver over the two clients.
func NewCascadeResolver(gecko *geckoterminal.Client, dex *dexscreener.Client, logger *slog.Logger) *CascadeResolver {
	return &CascadeResolver{
		gecko:  gecko,
		dex:    dex,
		logger: logger.With(slog.String("component", "price_resolver")),
	}
}

// Resolve implements PriceSource. Source failures are logged and swallowed;
// the first positive price wins.
func (r *CascadeResolver) Resolve(ctx context.Context, chain domain.Chain, tokenAddress string) (float64, string) {
	if chain.GeckoNetwork != "" {
		pool, err := r.gecko.TopPool(ctx, chain.GeckoNetwork, tokenAddress)
		if err == nil && pool.BaseTokenPriceUsd > 0 {
			return pool.BaseTokenPriceUsd, "geckoterminal-pool"
		}
		if err != nil {
			r.logger.DebugContext(ctx, "pool price lookup failed",
				slog.String("token", tokenAddress),
				slog.String("error", err.Error()),
			)
		}
	}

	price, err := r.dex.TokenPrice(ctx, chain.ID, tokenAddress)
	if err == nil && price > 0 {
		return price, "dexscreener"
	}
	if err != nil {
		r.logger.DebugContext(ctx, "aggregate price lookup failed",
			slog.String("token", tokenAddress),
			slog.String("error", err.Error()),
		)
	}

	return 0, ""
}
