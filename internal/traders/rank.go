package traders

import (
	"math"
	"sort"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
)

// RankConfig bounds the ranked output.
type RankConfig struct {
	TopN            int
	MinVolumeUsd    float64 // wallets at or below this combined volume are dust
	MaxAbsProfitUsd float64 // wallets at or beyond this are upstream artifacts
}

// Rank converts eligible wallet ledgers into the final sorted trader list.
// Open positions are valued at priceUsd; with no price available they are
// carried at zero value rather than dropped.
func Rank(ledgers []*WalletLedger, priceUsd float64, cfg RankConfig) []domain.TraderRankEntry {
	entries := make([]domain.TraderRankEntry, 0, len(ledgers))

	for _, w := range ledgers {
		if !w.Eligible() {
			continue
		}

		positionTokens := w.BuyTokens - w.SellTokens
		if positionTokens < 0 {
			positionTokens = 0
		}

		volumeUsd := w.BuyUsd + w.SellUsd
		if volumeUsd <= cfg.MinVolumeUsd {
			continue
		}
		if math.Abs(w.RealizedPnL) >= cfg.MaxAbsProfitUsd {
			continue
		}

		entries = append(entries, domain.TraderRankEntry{
			Wallet:           w.Wallet,
			ProfitUsd:        w.RealizedPnL,
			VolumeUsd:        volumeUsd,
			PositionTokens:   positionTokens,
			PositionValueUsd: positionTokens * priceUsd,
			TradeCount:       w.TradeCount,
			LastActive:       w.LastTradeTime,
			BuyVolume:        w.BuyUsd,
			SellVolume:       w.SellUsd,
		})
	}

	// Ties broken by volume then wallet so runs over identical inputs
	// produce identical ordering.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ProfitUsd != entries[j].ProfitUsd {
			return entries[i].ProfitUsd > entries[j].ProfitUsd
		}
		if entries[i].VolumeUsd != entries[j].VolumeUsd {
			return entries[i].VolumeUsd > entries[j].VolumeUsd
		}
		return entries[i].Wallet < entries[j].Wallet
	})

	if cfg.TopN > 0 && len(entries) > cfg.TopN {
		entries = entries[:cfg.TopN]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
