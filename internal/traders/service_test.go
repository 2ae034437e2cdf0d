package traders

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/cache"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solMint is a well-formed Solana mint (wrapped SOL).
const solMint = "So11111111111111111111111111111111111111112"

type stubPrice struct {
	price  float64
	source string
	calls  atomic.Int32
}

func (p *stubPrice) Resolve(context.Context, domain.Chain, string) (float64, string) {
	p.calls.Add(1)
	return p.price, p.source
}

type stubAdapter struct {
	name    string
	payload *Payload
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (a *stubAdapter) Name() string { return a.name }

func (a *stubAdapter) Supports(domain.Chain) bool { return true }

func (a *stubAdapter) Fetch(ctx context.Context, _ domain.Chain, _ string, _ float64) (*Payload, error) {
	a.calls.Add(1)
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.err != nil {
		return nil, a.err
	}
	return a.payload, nil
}

func terminalPayload(source string, wallets ...string) *Payload {
	entries := make([]domain.TraderRankEntry, 0, len(wallets))
	for i, w := range wallets {
		entries = append(entries, domain.TraderRankEntry{
			Rank: i + 1, Wallet: w, ProfitUsd: float64(100 - i), VolumeUsd: 1_000,
		})
	}
	return &Payload{Source: source, Tier: domain.TierEstimated, Entries: entries}
}

func newTestService(ttl time.Duration, price PriceSource, adapters ...SourceAdapter) *Service {
	return NewService(adapters, price, cache.NewMemory(ttl), time.Second, testRankConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTopTradersUnsupportedChain(t *testing.T) {
	adapter := &stubAdapter{name: "a", payload: terminalPayload("x", "w1")}
	price := &stubPrice{price: 1, source: "stub"}
	svc := newTestService(time.Minute, price, adapter)

	res, err := svc.TopTraders(context.Background(), "unknownchain", solMint)
	require.NoError(t, err)

	assert.Empty(t, res.Traders)
	assert.False(t, res.Meta.Supported)
	assert.Equal(t, "none", res.Meta.Source)
	assert.Equal(t, domain.SupportedChainIDs(), res.Meta.SupportedChains)
	// Short-circuits before any network-facing work.
	assert.Zero(t, adapter.calls.Load())
	assert.Zero(t, price.calls.Load())
}

func TestTopTradersInvalidAddress(t *testing.T) {
	adapter := &stubAdapter{name: "a", payload: terminalPayload("x", "w1")}
	svc := newTestService(time.Minute, &stubPrice{price: 1, source: "stub"}, adapter)

	res, err := svc.TopTraders(context.Background(), "ethereum", "not-an-address")
	require.NoError(t, err)

	assert.Empty(t, res.Traders)
	assert.True(t, res.Meta.Supported)
	assert.Equal(t, "none", res.Meta.Source)
	assert.Zero(t, adapter.calls.Load())
}

func TestTopTradersPriorityOrder(t *testing.T) {
	first := &stubAdapter{name: "first", err: failf(ReasonNoTrades, domain.ErrNoTrades)}
	second := &stubAdapter{name: "second", payload: terminalPayload("second-live-solana", "w1", "w2")}
	third := &stubAdapter{name: "third", payload: terminalPayload("third", "w3")}
	svc := newTestService(time.Minute, &stubPrice{price: 1, source: "stub"}, first, second, third)

	res, err := svc.TopTraders(context.Background(), "solana", solMint)
	require.NoError(t, err)

	assert.Equal(t, "second-live-solana", res.Meta.Source)
	assert.Equal(t, int32(1), first.calls.Load())
	assert.Equal(t, int32(1), second.calls.Load())
	assert.Zero(t, third.calls.Load(), "later adapters must not run after a success")

	reasons := make(map[string]string)
	for _, a := range res.Meta.Attempts {
		if a.Type == "adapter" {
			reasons[a.Source] = a.Reason
		}
	}
	assert.Equal(t, ReasonNoTrades, reasons["first"])
	assert.Equal(t, "ok", reasons["second"])
}

func TestTopTradersExhaustion(t *testing.T) {
	first := &stubAdapter{name: "first", err: failf(ReasonMissingAPIKey, domain.ErrMissingAPIKey)}
	second := &stubAdapter{name: "second", err: failf(ReasonNoPool, domain.ErrNoPool)}
	svc := newTestService(time.Minute, &stubPrice{price: 0}, first, second)

	res, err := svc.TopTraders(context.Background(), "solana", solMint)
	require.NoError(t, err)

	assert.Empty(t, res.Traders)
	assert.True(t, res.Meta.Supported)
	assert.Equal(t, "none", res.Meta.Source)
	assert.Equal(t, domain.TierNone, res.Meta.Tier)

	last := res.Meta.Attempts[len(res.Meta.Attempts)-1]
	assert.Equal(t, "outcome", last.Type)
	assert.Equal(t, "exhausted", last.Reason)
}

func TestTopTradersNoPriceDisablesDemo(t *testing.T) {
	demo := NewDemoAdapter(20)
	svc := newTestService(time.Minute, &stubPrice{price: 0}, demo)

	res, err := svc.TopTraders(context.Background(), "solana", solMint)
	require.NoError(t, err)

	assert.Empty(t, res.Traders)
	assert.Equal(t, "none", res.Meta.Source)

	var sawNoPrice bool
	for _, a := range res.Meta.Attempts {
		if a.Type == "adapter" && a.Reason == ReasonNoPrice {
			sawNoPrice = true
		}
	}
	assert.True(t, sawNoPrice, "demo failure reason must be recorded")
}

func TestTopTradersCachesResults(t *testing.T) {
	adapter := &stubAdapter{name: "a", payload: terminalPayload("a-estimated-solana", "w1")}
	svc := newTestService(time.Minute, &stubPrice{price: 1, source: "stub"}, adapter)

	first, err := svc.TopTraders(context.Background(), "solana", solMint)
	require.NoError(t, err)
	assert.False(t, first.Meta.FromCache)

	second, err := svc.TopTraders(context.Background(), "solana", solMint)
	require.NoError(t, err)
	assert.True(t, second.Meta.FromCache)
	assert.Equal(t, first.Traders, second.Traders)
	assert.Equal(t, int32(1), adapter.calls.Load())
}

func TestTopTradersCacheKeyIsCaseInsensitive(t *testing.T) {
	adapter := &stubAdapter{name: "a", payload: terminalPayload("a", "w1")}
	svc := newTestService(time.Minute, &stubPrice{price: 1, source: "stub"}, adapter)

	addr := "0x1234567890AbCdEf1234567890aBcDeF12345678"
	_, err := svc.TopTraders(context.Background(), "Ethereum", addr)
	require.NoError(t, err)
	res, err := svc.TopTraders(context.Background(), "ethereum", "0x1234567890abcdef1234567890abcdef12345678")
	require.NoError(t, err)

	assert.True(t, res.Meta.FromCache)
	assert.Equal(t, int32(1), adapter.calls.Load())
}

func TestTopTradersTTLExpiry(t *testing.T) {
	adapter := &stubAdapter{name: "a", payload: terminalPayload("a", "w1")}
	svc := newTestService(30*time.Millisecond, &stubPrice{price: 1, source: "stub"}, adapter)

	_, err := svc.TopTraders(context.Background(), "solana", solMint)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	res, err := svc.TopTraders(context.Background(), "solana", solMint)
	require.NoError(t, err)
	assert.False(t, res.Meta.FromCache, "stale entry must be recomputed")
	assert.Equal(t, int32(2), adapter.calls.Load())
}

func TestTopTradersCoalescesConcurrentCalls(t *testing.T) {
	adapter := &stubAdapter{
		name:    "slow",
		payload: terminalPayload("slow-estimated-solana", "w1", "w2"),
		delay:   80 * time.Millisecond,
	}
	svc := newTestService(time.Minute, &stubPrice{price: 1, source: "stub"}, adapter)

	const n = 8
	results := make([]*domain.Result, n)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer done.Done()
			start.Wait()
			res, err := svc.TopTraders(context.Background(), "solana", solMint)
			require.NoError(t, err)
			results[i] = res
		}(i)
	}
	start.Done()
	done.Wait()

	assert.Equal(t, int32(1), adapter.calls.Load(), "concurrent identical requests must coalesce")

	var leaders int
	for _, res := range results {
		assert.Equal(t, "slow-estimated-solana", res.Meta.Source)
		assert.Equal(t, results[0].Traders, res.Traders)
		if !res.Meta.FromCache {
			leaders++
		}
	}
	assert.Equal(t, 1, leaders, "only the computing caller reports a cache miss")
}

func TestTopTradersGranularPathUsesLedger(t *testing.T) {
	events := []domain.TradeEvent{
		buy("alice", 100, 100, 1),
		sell("alice", 100, 400, 2),
		buy("bob", 100, 100, 1),
		sell("bob", 100, 200, 2),
		buy("holder", 1000, 1000, 1),
	}
	adapter := &stubAdapter{name: "granular", payload: &Payload{
		Source: "granular-aggregated-solana",
		Tier:   domain.TierAggregated,
		Events: events,
	}}
	svc := newTestService(time.Minute, &stubPrice{price: 2, source: "stub"}, adapter)

	res, err := svc.TopTraders(context.Background(), "solana", solMint)
	require.NoError(t, err)

	require.Len(t, res.Traders, 2, "wallet without a sell must not be ranked")
	assert.Equal(t, "alice", res.Traders[0].Wallet)
	assert.InDelta(t, 300.0, res.Traders[0].ProfitUsd, 1e-9)
	assert.Equal(t, 1, res.Traders[0].Rank)
	assert.Equal(t, "bob", res.Traders[1].Wallet)
	assert.InDelta(t, 100.0, res.Traders[1].ProfitUsd, 1e-9)
	assert.Equal(t, 2, res.Traders[1].Rank)
}

func TestTopTradersIdempotentAcrossRuns(t *testing.T) {
	events := []domain.TradeEvent{
		buy("alice", 100, 100, 1),
		sell("alice", 60, 90, 5),
		buy("bob", 200, 150, 2),
		sell("bob", 200, 160, 6),
	}
	payload := &Payload{Source: "granular-aggregated-solana", Tier: domain.TierAggregated, Events: events}

	run := func() []domain.TraderRankEntry {
		adapter := &stubAdapter{name: "granular", payload: payload}
		svc := newTestService(time.Minute, &stubPrice{price: 1.5, source: "stub"}, adapter)
		res, err := svc.TopTraders(context.Background(), "solana", solMint)
		require.NoError(t, err)
		return res.Traders
	}

	assert.Equal(t, run(), run())
}

func TestTopTradersEmptyAdapterResultAdvancesChain(t *testing.T) {
	// A granular payload whose wallets all fail eligibility is "no usable
	// list": the chain must move on.
	ineligible := &stubAdapter{name: "ineligible", payload: &Payload{
		Source: "ineligible",
		Tier:   domain.TierAggregated,
		Events: []domain.TradeEvent{buy("holder", 100, 1_000, 1)},
	}}
	fallback := &stubAdapter{name: "fallback", payload: terminalPayload("fallback-estimated-solana", "w1")}
	svc := newTestService(time.Minute, &stubPrice{price: 1, source: "stub"}, ineligible, fallback)

	res, err := svc.TopTraders(context.Background(), "solana", solMint)
	require.NoError(t, err)
	assert.Equal(t, "fallback-estimated-solana", res.Meta.Source)
	assert.Equal(t, int32(1), fallback.calls.Load())
}
