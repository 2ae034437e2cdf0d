package traders

import (
	"context"
	"errors"
	"strings"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/solanatracker"
)

// SolanaTrackerAdapter is the highest-priority source: a granular per-swap
// ledger from the Solana Tracker trade-history endpoint. Solana only.
type SolanaTrackerAdapter struct {
	client      *solanatracker.Client
	limit       int
	maxTradeUsd float64
}

// NewSolanaTrackerAdapter creates the adapter. limit bounds the fetched
// window; maxTradeUsd is the single-trade anomaly ceiling above which a
// record is rejected as a bad tick.
func NewSolanaTrackerAdapter(client *solanatracker.Client, limit int, maxTradeUsd float64) *SolanaTrackerAdapter {
	return &SolanaTrackerAdapter{client: client, limit: limit, maxTradeUsd: maxTradeUsd}
}

func (a *SolanaTrackerAdapter) Name() string { return "solana-tracker" }

func (a *SolanaTrackerAdapter) Supports(chain domain.Chain) bool {
	return chain.Kind == domain.ChainKindSolana
}

// Fetch pulls the recent swap window and normalizes each record against the
// target mint: the mint on the To leg means the wallet bought the token, on
// the From leg it sold. Records missing a wallet, a positive USD value, or a
// positive token amount are discarded at this boundary.
func (a *SolanaTrackerAdapter) Fetch(ctx context.Context, chain domain.Chain, tokenAddress string, _ float64) (*Payload, error) {
	trades, err := a.client.GetTokenTrades(ctx, tokenAddress, a.limit)
	if err != nil {
		if errors.Is(err, domain.ErrMissingAPIKey) {
			return nil, failf(ReasonMissingAPIKey, err)
		}
		return nil, upstreamFail(err)
	}

	events := make([]domain.TradeEvent, 0, len(trades))
	for _, t := range trades {
		var side domain.Side
		var amount float64
		switch {
		case strings.EqualFold(t.To.Address, tokenAddress):
			side = domain.SideBuy
			amount = t.To.Amount
		case strings.EqualFold(t.From.Address, tokenAddress):
			side = domain.SideSell
			amount = t.From.Amount
		default:
			continue // target token on neither leg
		}

		if t.Wallet == "" || t.Volume <= 0 || amount <= 0 {
			continue
		}
		if t.Volume > a.maxTradeUsd {
			continue // anomaly ceiling, bad tick
		}

		ts := t.Time
		if ts > 20_000_000_000 { // milliseconds
			ts /= 1000
		}

		events = append(events, domain.TradeEvent{
			Wallet:      t.Wallet,
			Side:        side,
			TokenAmount: amount,
			USDValue:    t.Volume,
			Timestamp:   ts,
		})
	}

	if len(events) == 0 {
		return nil, failf(ReasonNoTrades, domain.ErrNoTrades)
	}

	return &Payload{
		Source: "solana-tracker-aggregated-" + chain.ID,
		Tier:   domain.TierAggregated,
		Events: events,
	}, nil
}
