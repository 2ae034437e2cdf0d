package domain

// Side is the direction of a trade leg relative to the target token.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TradeEvent is one matched leg of a swap, normalized at the adapter edge.
// Events are ephemeral: produced by a granular source adapter and consumed
// immediately by the cost-basis ledger, never persisted.
type TradeEvent struct {
	Wallet      string
	Side        Side
	TokenAmount float64 // target-token amount, > 0
	USDValue    float64 // total USD value of the leg, > 0
	Timestamp   int64   // unix seconds
}
