package traders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/dexscreener"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/helius"
	"golang.org/x/sync/errgroup"
)

// EstimatedAdapter is the third-priority source. When no granular trade list
// is obtainable it synthesizes approximate per-wallet figures from the most
// liquid pair's 24h aggregates, anchored (on Solana) to a live top-holder
// snapshot. Its output bypasses the ledger and is always tagged estimated.
type EstimatedAdapter struct {
	dex          *dexscreener.Client
	helius       *helius.Client // nil disables the holder snapshot
	minVolumeUsd float64
	topN         int
	nowFn        func() time.Time
}

// NewEstimatedAdapter creates the adapter. minVolumeUsd is the 24h-volume
// activity floor below which there is not enough signal to estimate from.
func NewEstimatedAdapter(dex *dexscreener.Client, heliusClient *helius.Client, minVolumeUsd float64, topN int) *EstimatedAdapter {
	return &EstimatedAdapter{
		dex:          dex,
		helius:       heliusClient,
		minVolumeUsd: minVolumeUsd,
		topN:         topN,
		nowFn:        time.Now,
	}
}

func (a *EstimatedAdapter) Name() string { return "dexscreener-estimated" }

func (a *EstimatedAdapter) Supports(domain.Chain) bool { return true }

// estimatedPosition is one wallet's holding used as the estimation anchor.
type estimatedPosition struct {
	wallet string
	tokens float64
}

func (a *EstimatedAdapter) Fetch(ctx context.Context, chain domain.Chain, tokenAddress string, priceUsd float64) (*Payload, error) {
	if priceUsd <= 0 {
		return nil, failf(ReasonNoPrice, domain.ErrNoPrice)
	}

	var pair dexscreener.Pair
	var holders []helius.TokenHolder

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := a.dex.MostLiquidPair(gctx, chain.ID, tokenAddress)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if chain.Kind == domain.ChainKindSolana && a.helius != nil {
		// Best effort: a failed snapshot falls back to synthetic wallets.
		g.Go(func() error {
			hs, err := a.helius.TopHolders(gctx, tokenAddress)
			if err == nil {
				holders = hs
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, failf(ReasonNoTrades, err)
		}
		return nil, upstreamFail(err)
	}

	volume24h := pair.Volume.H24
	if volume24h < a.minVolumeUsd {
		return nil, failf(ReasonLowActivity,
			fmt.Errorf("%w: 24h volume %.2f below floor %.2f", domain.ErrLowActivity, volume24h, a.minVolumeUsd))
	}

	positions := a.positions(chain, tokenAddress, holders, volume24h, priceUsd)
	txns24h := pair.Txns.H24.Buys + pair.Txns.H24.Sells
	entries := a.synthesize(tokenAddress, positions, volume24h, priceUsd, txns24h)

	return &Payload{
		Source:  "dexscreener-estimated-" + chain.ID,
		Tier:    domain.TierEstimated,
		Entries: entries,
	}, nil
}

// positions returns the wallet holdings to estimate from: the live holder
// snapshot when one was obtained, otherwise a deterministic synthetic set
// derived from the token address.
func (a *EstimatedAdapter) positions(chain domain.Chain, tokenAddress string, holders []helius.TokenHolder, volume24h, priceUsd float64) []estimatedPosition {
	if len(holders) > 0 {
		positions := make([]estimatedPosition, 0, len(holders))
		for _, h := range holders {
			positions = append(positions, estimatedPosition{wallet: h.Address, tokens: h.UIAmount})
			if len(positions) >= a.topN {
				break
			}
		}
		return positions
	}

	rng := rand.New(rand.NewSource(seedFrom(chain.ID, tokenAddress, "estimated")))
	positions := make([]estimatedPosition, 0, a.topN)
	for i := 0; i < a.topN; i++ {
		// Position sized as a small slice of daily turnover.
		tokens := (volume24h / priceUsd) * (0.002 + rng.Float64()*0.05)
		positions = append(positions, estimatedPosition{
			wallet: syntheticWallet(rng),
			tokens: tokens,
		})
	}
	return positions
}

// synthesize scales a per-wallet pseudo-random baseline by the ratio of the
// wallet's position value to 24h volume. The baseline is seeded from the
// token and wallet so repeated runs over the same inputs agree.
func (a *EstimatedAdapter) synthesize(tokenAddress string, positions []estimatedPosition, volume24h, priceUsd float64, txns24h int) []domain.TraderRankEntry {
	now := a.nowFn().Unix()
	entries := make([]domain.TraderRankEntry, 0, len(positions))

	for _, p := range positions {
		positionValue := p.tokens * priceUsd
		share := positionValue / volume24h
		if share > 1 {
			share = 1
		}

		rng := rand.New(rand.NewSource(seedFrom(tokenAddress, p.wallet)))
		baseline := rng.Float64()*2 - 0.6 // skewed toward profit
		profit := baseline * share * volume24h

		tradeCount := 2 + int(share*float64(txns24h))
		if txns24h > 0 && tradeCount > txns24h {
			tradeCount = txns24h
		}

		volume := positionValue * (1.5 + rng.Float64()*3)

		entries = append(entries, domain.TraderRankEntry{
			Wallet:           p.wallet,
			ProfitUsd:        profit,
			VolumeUsd:        volume,
			PositionTokens:   p.tokens,
			PositionValueUsd: positionValue,
			TradeCount:       tradeCount,
			LastActive:       now - int64(rng.Intn(86_400)),
			BuyVolume:        volume / 2,
			SellVolume:       volume / 2,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProfitUsd > entries[j].ProfitUsd
	})
	if len(entries) > a.topN {
		entries = entries[:a.topN]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
