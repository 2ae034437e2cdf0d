package domain

// ConfidenceTier labels how trustworthy a trader-ranking result is, from
// real per-trade accounting down to synthetic placeholder data.
type ConfidenceTier string

const (
	TierAggregated ConfidenceTier = "real-aggregated"
	TierLivePool   ConfidenceTier = "live-pool"
	TierEstimated  ConfidenceTier = "estimated"
	TierDemo       ConfidenceTier = "demo"
	TierNone       ConfidenceTier = "none"
)

// Disclaimer returns the fixed caller-facing confidence statement for a tier.
func (t ConfidenceTier) Disclaimer() string {
	switch t {
	case TierAggregated:
		return "Profit figures are computed from real aggregated trade history for this token."
	case TierLivePool:
		return "Profit figures are computed from recent live trades on the token's most liquid pool."
	case TierEstimated:
		return "Figures are estimated from 24h aggregate volume and holder positions; treat as indicative only."
	case TierDemo:
		return "Demo data: no real trading signal was available for this token."
	default:
		return "No trader data available for this token."
	}
}

// TraderRankEntry is one row of the ranked output. Immutable once produced.
type TraderRankEntry struct {
	Rank             int     `json:"rank"`
	Wallet           string  `json:"wallet"`
	ProfitUsd        float64 `json:"profitUsd"`
	VolumeUsd        float64 `json:"volumeUsd"`
	PositionTokens   float64 `json:"positionTokens"`
	PositionValueUsd float64 `json:"positionValueUsd"`
	TradeCount       int     `json:"tradeCount"`
	LastActive       int64   `json:"lastActive"`
	BuyVolume        float64 `json:"buyVolume"`
	SellVolume       float64 `json:"sellVolume"`
}

// Attempt is one entry of the diagnostics trail: every cache and price
// lookup, every adapter tried, and the final outcome. Attempts are never
// discarded, even on success.
type Attempt struct {
	Type   string `json:"type"`
	Source string `json:"source,omitempty"`
	Reason string `json:"reason,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// Meta describes the provenance of a Result.
type Meta struct {
	ChainID         string         `json:"chainId"`
	TokenAddress    string         `json:"tokenAddress"`
	PriceUsd        float64        `json:"priceUsd"`
	Source          string         `json:"source"`
	Tier            ConfidenceTier `json:"tier"`
	Disclaimer      string         `json:"disclaimer"`
	Count           int            `json:"count"`
	Supported       bool           `json:"supported"`
	SupportedChains []string       `json:"supportedChains,omitempty"`
	FromCache       bool           `json:"fromCache"`
	RequestID       string         `json:"requestId"`
	Attempts        []Attempt      `json:"attempts"`
}

// Result is the full response of one top-traders lookup.
type Result struct {
	Traders []TraderRankEntry `json:"traders"`
	Meta    Meta              `json:"meta"`
}
