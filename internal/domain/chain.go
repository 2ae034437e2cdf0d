package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ChainKind distinguishes address formats across supported networks.
type ChainKind int

const (
	ChainKindEVM ChainKind = iota
	ChainKindSolana
)

// Chain is one supported network. GeckoNetwork is the network identifier the
// GeckoTerminal API uses for this chain.
type Chain struct {
	ID           string
	GeckoNetwork string
	Kind         ChainKind
}

// chains is the registry of networks the trader aggregation supports, in a
// stable order so SupportedChainIDs is deterministic.
var chains = []Chain{
	{ID: "solana", GeckoNetwork: "solana", Kind: ChainKindSolana},
	{ID: "ethereum", GeckoNetwork: "eth", Kind: ChainKindEVM},
	{ID: "base", GeckoNetwork: "base", Kind: ChainKindEVM},
	{ID: "bsc", GeckoNetwork: "bsc", Kind: ChainKindEVM},
	{ID: "polygon", GeckoNetwork: "polygon_pos", Kind: ChainKindEVM},
	{ID: "arbitrum", GeckoNetwork: "arbitrum", Kind: ChainKindEVM},
	{ID: "avalanche", GeckoNetwork: "avax", Kind: ChainKindEVM},
}

// ChainByID looks up a supported chain by its identifier (case-insensitive).
func ChainByID(id string) (Chain, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, c := range chains {
		if c.ID == id {
			return c, true
		}
	}
	return Chain{}, false
}

// SupportedChainIDs returns the identifiers of all supported chains.
func SupportedChainIDs() []string {
	ids := make([]string, 0, len(chains))
	for _, c := range chains {
		ids = append(ids, c.ID)
	}
	return ids
}

// ValidAddress reports whether addr is a plausible token address for this
// chain: a hex contract address on EVM networks, a base58 mint on Solana.
func (c Chain) ValidAddress(addr string) bool {
	switch c.Kind {
	case ChainKindEVM:
		return common.IsHexAddress(addr)
	case ChainKindSolana:
		return isBase58Mint(addr)
	default:
		return false
	}
}

// isBase58Mint checks length and alphabet only; full base58 decoding is not
// needed to reject obviously malformed input.
func isBase58Mint(s string) bool {
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz", r) {
			return false
		}
	}
	return true
}
