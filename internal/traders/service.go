package traders

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/cache"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Service is the top-traders orchestrator: cache lookup, request coalescing,
// price resolution, and the adapter fallback chain, in that order. It never
// returns an error to its caller; every failure mode becomes a well-formed
// empty Result with a diagnostics trail.
type Service struct {
	adapters []SourceAdapter
	price    PriceSource
	cache    cache.Cache
	timeout  time.Duration
	rankCfg  RankConfig
	logger   *slog.Logger

	group singleflight.Group
}

// NewService creates the orchestrator. adapters must be given in priority
// order; timeout is the per-adapter call budget.
func NewService(adapters []SourceAdapter, price PriceSource, c cache.Cache, timeout time.Duration, rankCfg RankConfig, logger *slog.Logger) *Service {
	return &Service{
		adapters: adapters,
		price:    price,
		cache:    c,
		timeout:  timeout,
		rankCfg:  rankCfg,
		logger:   logger.With(slog.String("component", "traders")),
	}
}

// TopTraders resolves the ranked trader list for a token. The error return
// is reserved for context cancellation; all domain-level failures (unknown
// chain, exhausted sources) come back as a Result with Source "none".
//
// Concurrent calls for the same chain:token key while no cache entry exists
// are coalesced onto a single upstream computation; only the caller that ran
// the chain reports FromCache=false.
func (s *Service) TopTraders(ctx context.Context, chainID, tokenAddress string) (*domain.Result, error) {
	requestID := uuid.NewString()
	chainID = strings.ToLower(strings.TrimSpace(chainID))
	tokenAddress = strings.TrimSpace(tokenAddress)

	log := s.logger.With(
		slog.String("request_id", requestID),
		slog.String("chain", chainID),
		slog.String("token", tokenAddress),
	)

	chain, ok := domain.ChainByID(chainID)
	if !ok {
		log.InfoContext(ctx, "unsupported chain requested")
		res := s.emptyResult(chainID, tokenAddress, 0, requestID, []domain.Attempt{
			{Type: "validation", Reason: "unsupported-chain"},
		})
		res.Meta.Supported = false
		res.Meta.SupportedChains = domain.SupportedChainIDs()
		return res, nil
	}

	if !chain.ValidAddress(tokenAddress) {
		log.InfoContext(ctx, "malformed token address")
		return s.emptyResult(chainID, tokenAddress, 0, requestID, []domain.Attempt{
			{Type: "validation", Reason: "invalid-token-address"},
		}), nil
	}

	key := chainID + ":" + strings.ToLower(tokenAddress)

	if cached, hit, err := s.cache.Get(ctx, key); err != nil {
		// A broken cache backend degrades to a miss.
		log.WarnContext(ctx, "cache lookup failed", slog.String("error", err.Error()))
	} else if hit {
		out := cloneResult(cached)
		out.Meta.FromCache = true
		out.Meta.Attempts = append(out.Meta.Attempts, domain.Attempt{Type: "cache", Reason: "hit"})
		return out, nil
	}

	// leader is set only inside the closure that actually runs, i.e. in the
	// first caller for this key; coalesced waiters keep it false.
	var leader bool
	v, _, _ := s.group.Do(key, func() (any, error) {
		leader = true
		return s.compute(ctx, chain, tokenAddress, key, requestID, log), nil
	})

	res := v.(*domain.Result)
	if !leader {
		out := cloneResult(res)
		out.Meta.FromCache = true
		out.Meta.RequestID = requestID
		return out, nil
	}
	return res, nil
}

// compute runs price resolution and the adapter chain for one cache key.
// Exactly one compute per key is in flight at a time.
func (s *Service) compute(ctx context.Context, chain domain.Chain, tokenAddress, key, requestID string, log *slog.Logger) *domain.Result {
	attempts := []domain.Attempt{{Type: "cache", Reason: "miss"}}

	price, priceSource := s.price.Resolve(ctx, chain, tokenAddress)
	if price > 0 {
		attempts = append(attempts, domain.Attempt{Type: "price", Source: priceSource})
	} else {
		attempts = append(attempts, domain.Attempt{Type: "price", Reason: "unavailable"})
	}

	for _, adapter := range s.adapters {
		if !adapter.Supports(chain) {
			attempts = append(attempts, domain.Attempt{
				Type: "adapter", Source: adapter.Name(), Reason: "chain-not-supported",
			})
			continue
		}

		actx, cancel := context.WithTimeout(ctx, s.timeout)
		payload, err := adapter.Fetch(actx, chain, tokenAddress, price)
		cancel()

		if err != nil {
			reason := ReasonUpstream
			var fe *FetchError
			if errors.As(err, &fe) {
				reason = fe.Reason
			}
			attempts = append(attempts, domain.Attempt{
				Type: "adapter", Source: adapter.Name(), Reason: reason,
			})
			log.WarnContext(ctx, "trade source failed",
				slog.String("adapter", adapter.Name()),
				slog.String("reason", reason),
				slog.String("error", err.Error()),
			)
			continue
		}

		entries := payload.Entries
		if len(payload.Events) > 0 {
			entries = Rank(Process(payload.Events).Finalize(), price, s.rankCfg)
		}
		if len(entries) == 0 {
			attempts = append(attempts, domain.Attempt{
				Type: "adapter", Source: adapter.Name(), Reason: "no-eligible-traders",
			})
			continue
		}

		attempts = append(attempts, domain.Attempt{
			Type: "adapter", Source: adapter.Name(), Reason: "ok", Count: len(entries),
		})
		attempts = append(attempts, domain.Attempt{
			Type: "outcome", Source: payload.Source, Count: len(entries),
		})

		res := &domain.Result{
			Traders: entries,
			Meta: domain.Meta{
				ChainID:      chain.ID,
				TokenAddress: tokenAddress,
				PriceUsd:     price,
				Source:       payload.Source,
				Tier:         payload.Tier,
				Disclaimer:   payload.Tier.Disclaimer(),
				Count:        len(entries),
				Supported:    true,
				RequestID:    requestID,
				Attempts:     attempts,
			},
		}

		if err := s.cache.Set(ctx, key, res); err != nil {
			log.WarnContext(ctx, "cache store failed", slog.String("error", err.Error()))
		}
		log.InfoContext(ctx, "top traders resolved",
			slog.String("source", payload.Source),
			slog.Int("count", len(entries)),
			slog.Float64("price_usd", price),
		)
		return res
	}

	attempts = append(attempts, domain.Attempt{Type: "outcome", Source: "none", Reason: "exhausted"})
	log.InfoContext(ctx, "all trade sources exhausted")
	return s.emptyResult(chain.ID, tokenAddress, price, requestID, attempts)
}

// emptyResult is the well-formed "nothing to rank" response. Supported
// defaults to true; the unsupported-chain path overrides it.
func (s *Service) emptyResult(chainID, tokenAddress string, price float64, requestID string, attempts []domain.Attempt) *domain.Result {
	return &domain.Result{
		Traders: []domain.TraderRankEntry{},
		Meta: domain.Meta{
			ChainID:      chainID,
			TokenAddress: tokenAddress,
			PriceUsd:     price,
			Source:       "none",
			Tier:         domain.TierNone,
			Disclaimer:   domain.TierNone.Disclaimer(),
			Supported:    true,
			RequestID:    requestID,
			Attempts:     attempts,
		},
	}
}

// cloneResult copies a result so per-caller meta mutation cannot leak into
// the cached copy. The traders slice is shared; entries are immutable.
func cloneResult(res *domain.Result) *domain.Result {
	out := *res
	out.Meta.Attempts = append([]domain.Attempt(nil), res.Meta.Attempts...)
	return &out
}
