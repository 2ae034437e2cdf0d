package traders

import (
	"context"
	"errors"
	"strings"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/geckoterminal"
)

// GeckoTerminalAdapter is the second-priority source: recent trades from the
// token's highest-liquidity pool on any supported network.
type GeckoTerminalAdapter struct {
	client *geckoterminal.Client
	limit  int
}

// NewGeckoTerminalAdapter creates the adapter; limit caps the trade window.
func NewGeckoTerminalAdapter(client *geckoterminal.Client, limit int) *GeckoTerminalAdapter {
	return &GeckoTerminalAdapter{client: client, limit: limit}
}

func (a *GeckoTerminalAdapter) Name() string { return "geckoterminal" }

func (a *GeckoTerminalAdapter) Supports(chain domain.Chain) bool {
	return chain.GeckoNetwork != ""
}

// Fetch resolves the top pool, pulls its recent trades, and normalizes them.
// Each trade carries an explicit kind; the token amount comes from whichever
// leg matches the target token, falling back on the kind when the trade does
// not name the token on either leg.
func (a *GeckoTerminalAdapter) Fetch(ctx context.Context, chain domain.Chain, tokenAddress string, _ float64) (*Payload, error) {
	if chain.GeckoNetwork == "" {
		return nil, failf(ReasonNoPool, domain.ErrUnsupportedChain)
	}

	pool, err := a.client.TopPool(ctx, chain.GeckoNetwork, tokenAddress)
	if err != nil {
		if errors.Is(err, domain.ErrNoPool) || errors.Is(err, domain.ErrNotFound) {
			return nil, failf(ReasonNoPool, err)
		}
		return nil, upstreamFail(err)
	}

	trades, err := a.client.PoolTrades(ctx, chain.GeckoNetwork, pool.Address, a.limit)
	if err != nil {
		return nil, upstreamFail(err)
	}

	events := make([]domain.TradeEvent, 0, len(trades))
	for _, t := range trades {
		var side domain.Side
		switch t.Kind {
		case "buy":
			side = domain.SideBuy
		case "sell":
			side = domain.SideSell
		default:
			continue
		}

		amount := tokenLegAmount(t, tokenAddress, side)
		if t.Wallet == "" || t.VolumeUsd <= 0 || amount <= 0 {
			continue
		}

		events = append(events, domain.TradeEvent{
			Wallet:      t.Wallet,
			Side:        side,
			TokenAmount: amount,
			USDValue:    t.VolumeUsd,
			Timestamp:   t.Timestamp,
		})
	}

	if len(events) == 0 {
		return nil, failf(ReasonNoTrades, domain.ErrNoTrades)
	}

	return &Payload{
		Source: "geckoterminal-live-" + chain.ID,
		Tier:   domain.TierLivePool,
		Events: events,
	}, nil
}

// tokenLegAmount picks the target token's amount out of a trade. A buy of
// the token delivers it on the To leg, a sell spends it from the From leg;
// leg addresses, when present, take precedence over the kind.
func tokenLegAmount(t geckoterminal.Trade, tokenAddress string, side domain.Side) float64 {
	switch {
	case strings.EqualFold(t.ToTokenAddress, tokenAddress):
		return t.ToTokenAmount
	case strings.EqualFold(t.FromTokenAddress, tokenAddress):
		return t.FromTokenAmount
	case side == domain.SideBuy:
		return t.ToTokenAmount
	default:
		return t.FromTokenAmount
	}
}
