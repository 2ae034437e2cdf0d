// Package traders aggregates on-chain trading activity for a token and ranks
// wallets by realized and unrealized profit. It owns the source-adapter
// fallback chain, the FIFO cost-basis ledger, and the cached orchestrator.
package traders

import (
	"context"
	"errors"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
)

// Payload is what one source adapter produces. Granular adapters fill Events
// for the ledger; terminal adapters (estimated, demo) fill Entries directly
// and bypass the ledger entirely.
type Payload struct {
	Source  string
	Tier    domain.ConfidenceTier
	Events  []domain.TradeEvent
	Entries []domain.TraderRankEntry
}

// SourceAdapter is one upstream trade source. Adapters are tried strictly in
// priority order; the first usable payload terminates the chain.
type SourceAdapter interface {
	// Name identifies the adapter in the diagnostics trail.
	Name() string
	// Supports reports whether the adapter can serve the given chain.
	Supports(chain domain.Chain) bool
	// Fetch retrieves and normalizes data for the token. priceUsd is the
	// resolved current price (0 when unavailable); terminal adapters that
	// need a baseline price must fail when it is 0.
	Fetch(ctx context.Context, chain domain.Chain, tokenAddress string, priceUsd float64) (*Payload, error)
}

// Reason codes carried by FetchError into the attempts trail.
const (
	ReasonMissingAPIKey = "missing-api-key"
	ReasonUnauthorized  = "unauthorized"
	ReasonRateLimited   = "rate-limited"
	ReasonUpstream      = "upstream-error"
	ReasonNoTrades      = "no-usable-trades"
	ReasonNoPool        = "no-pool"
	ReasonLowActivity   = "low-activity"
	ReasonNoPrice       = "no-price"
)

// FetchError is an adapter failure as a typed outcome: a stable reason code
// for diagnostics plus the underlying cause.
type FetchError struct {
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func failf(reason string, err error) *FetchError {
	return &FetchError{Reason: reason, Err: err}
}

// upstreamFail classifies a provider-call failure, keeping throttling and
// auth problems distinguishable from generic upstream errors.
func upstreamFail(err error) *FetchError {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return failf(ReasonRateLimited, err)
	case errors.Is(err, domain.ErrUnauthorized):
		return failf(ReasonUnauthorized, err)
	default:
		return failf(ReasonUpstream, err)
	}
}
