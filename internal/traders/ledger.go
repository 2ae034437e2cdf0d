package traders

import (
	"sort"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
)

// Lot is an open cost-basis unit: tokens acquired at one unit cost, held
// until consumed by later sells. Tokens is always > 0 while the lot sits in
// a wallet's queue.
type Lot struct {
	Tokens   float64
	UnitCost float64
}

// WalletLedger accumulates one wallet's activity over a single aggregation
// run. Ledgers never survive past the run; every orchestration starts from
// zero.
type WalletLedger struct {
	Wallet        string
	BuyUsd        float64
	SellUsd       float64
	BuyTokens     float64
	SellTokens    float64
	RealizedPnL   float64
	TradeCount    int
	LastTradeTime int64

	lots []Lot // FIFO, index 0 is oldest
}

// Lots returns a copy of the wallet's open lot queue, oldest first.
func (w *WalletLedger) Lots() []Lot {
	out := make([]Lot, len(w.lots))
	copy(out, w.lots)
	return out
}

// Eligible reports whether the wallet qualifies for P&L ranking: it must
// have completed at least one round trip. Pure net-buyers are excluded --
// their profit is indeterminate, not zero.
func (w *WalletLedger) Eligible() bool {
	return w.BuyUsd > 0 && w.SellUsd > 0 && w.TradeCount > 1
}

// Ledger maps wallets to their accumulators for one run.
type Ledger struct {
	wallets map[string]*WalletLedger
}

// Process builds a Ledger from a set of trade events. Events arrive in no
// particular order from upstream, so they are sorted chronologically before
// the FIFO walk.
func Process(events []domain.TradeEvent) *Ledger {
	sorted := make([]domain.TradeEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	l := &Ledger{wallets: make(map[string]*WalletLedger)}
	for _, e := range sorted {
		l.apply(e)
	}
	return l
}

func (l *Ledger) apply(e domain.TradeEvent) {
	if e.TokenAmount <= 0 || e.USDValue <= 0 || e.Wallet == "" {
		return
	}

	w, ok := l.wallets[e.Wallet]
	if !ok {
		w = &WalletLedger{Wallet: e.Wallet}
		l.wallets[e.Wallet] = w
	}

	switch e.Side {
	case domain.SideBuy:
		w.lots = append(w.lots, Lot{
			Tokens:   e.TokenAmount,
			UnitCost: e.USDValue / e.TokenAmount,
		})
		w.BuyUsd += e.USDValue
		w.BuyTokens += e.TokenAmount

	case domain.SideSell:
		remaining := e.TokenAmount
		sellUnitPrice := e.USDValue / e.TokenAmount

		for remaining > 0 && len(w.lots) > 0 {
			lot := w.lots[0]
			w.lots = w.lots[1:]

			consumed := remaining
			if lot.Tokens < consumed {
				consumed = lot.Tokens
			}

			w.RealizedPnL += (sellUnitPrice - lot.UnitCost) * consumed
			lot.Tokens -= consumed
			remaining -= consumed

			if lot.Tokens > 0 {
				// Partial consumption: the lot stays at the front of the queue.
				w.lots = append([]Lot{lot}, w.lots...)
			}
		}

		// Any remaining sell quantity had no observed buy side in this
		// sampling window; it counts toward totals but not realized P&L.
		w.SellUsd += e.USDValue
		w.SellTokens += e.TokenAmount

	default:
		return
	}

	w.TradeCount++
	if e.Timestamp > w.LastTradeTime {
		w.LastTradeTime = e.Timestamp
	}
}

// Finalize applies the per-wallet guards and returns all wallet ledgers.
//
// The FIFO walk can only ever show conservative-or-equal profit relative to
// the naive dollars-out-minus-in figure inside one sampling window; anything
// above that is a data artifact and is clamped. The loss floor holds because
// a wallet cannot realize a loss larger than its observed investment.
func (l *Ledger) Finalize() []*WalletLedger {
	out := make([]*WalletLedger, 0, len(l.wallets))
	for _, w := range l.wallets {
		naive := w.SellUsd - w.BuyUsd
		if w.RealizedPnL > naive {
			w.RealizedPnL = naive
		}
		if w.RealizedPnL < -w.BuyUsd {
			w.RealizedPnL = -w.BuyUsd
		}
		out = append(out, w)
	}
	return out
}

// Wallet returns the accumulator for one wallet, or nil.
func (l *Ledger) Wallet(address string) *WalletLedger {
	return l.wallets[address]
}
