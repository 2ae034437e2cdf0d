package traders

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
)

// DemoAdapter is the final fallback: a deterministic generator that keeps a
// UI populated when no real signal exists. It is always tagged demo and must
// never share a code path with the real-data adapters. It fails only when no
// baseline price could be resolved.
type DemoAdapter struct {
	topN  int
	nowFn func() time.Time
}

// NewDemoAdapter creates the demo generator.
func NewDemoAdapter(topN int) *DemoAdapter {
	return &DemoAdapter{topN: topN, nowFn: time.Now}
}

func (a *DemoAdapter) Name() string { return "demo" }

func (a *DemoAdapter) Supports(domain.Chain) bool { return true }

func (a *DemoAdapter) Fetch(_ context.Context, chain domain.Chain, tokenAddress string, priceUsd float64) (*Payload, error) {
	if priceUsd <= 0 {
		return nil, failf(ReasonNoPrice, domain.ErrNoPrice)
	}

	return &Payload{
		Source:  "demo-data-" + chain.ID,
		Tier:    domain.TierDemo,
		Entries: GenerateDemoTraders(tokenAddress, priceUsd, a.topN, a.nowFn()),
	}, nil
}

// GenerateDemoTraders produces a deterministic pseudo-random trader list
// seeded by the token address and current price. Same inputs, same output.
func GenerateDemoTraders(tokenAddress string, priceUsd float64, n int, now time.Time) []domain.TraderRankEntry {
	seed := seedFrom(tokenAddress) ^ int64(math.Float64bits(priceUsd))
	rng := rand.New(rand.NewSource(seed))

	entries := make([]domain.TraderRankEntry, 0, n)
	for i := 0; i < n; i++ {
		volume := 800 + rng.Float64()*60_000
		profit := (rng.Float64()*1.6 - 0.5) * volume * 0.4
		positionTokens := (volume / priceUsd) * rng.Float64() * 0.5
		buyVolume := volume * (0.4 + rng.Float64()*0.2)

		entries = append(entries, domain.TraderRankEntry{
			Wallet:           syntheticWallet(rng),
			ProfitUsd:        profit,
			VolumeUsd:        volume,
			PositionTokens:   positionTokens,
			PositionValueUsd: positionTokens * priceUsd,
			TradeCount:       2 + rng.Intn(40),
			LastActive:       now.Unix() - int64(rng.Intn(86_400)),
			BuyVolume:        buyVolume,
			SellVolume:       volume - buyVolume,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProfitUsd > entries[j].ProfitUsd
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

// seedFrom hashes the given parts into a PRNG seed.
func seedFrom(parts ...string) int64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return int64(h.Sum64())
}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// syntheticWallet draws a base58-looking address from rng. Used by the demo
// generator and the estimated adapter's synthetic fallback only.
func syntheticWallet(rng *rand.Rand) string {
	b := make([]byte, 38)
	for i := range b {
		b[i] = base58Alphabet[rng.Intn(len(base58Alphabet))]
	}
	return string(b)
}
