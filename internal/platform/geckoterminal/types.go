package geckoterminal

import "time"

// Pool is a normalized DEX pool.
type Pool struct {
	Address           string
	Name              string
	ReserveUsd        float64
	BaseTokenPriceUsd float64
}

// Trade is a normalized pool trade.
type Trade struct {
	Wallet           string
	Kind             string // "buy" or "sell" of the pool's base token
	VolumeUsd        float64
	FromTokenAddress string
	ToTokenAddress   string
	FromTokenAmount  float64
	ToTokenAmount    float64
	Timestamp        int64 // unix seconds
}

// poolsResponse is the JSON:API envelope of the token-pools endpoint.
type poolsResponse struct {
	Data []apiPool `json:"data"`
}

// apiPool mirrors the wire shape; numeric attributes arrive as strings.
type apiPool struct {
	ID         string `json:"id"`
	Attributes struct {
		Address           string `json:"address"`
		Name              string `json:"name"`
		ReserveInUsd      string `json:"reserve_in_usd"`
		BaseTokenPriceUsd string `json:"base_token_price_usd"`
	} `json:"attributes"`
}

func (p *apiPool) toPool() Pool {
	return Pool{
		Address:           p.Attributes.Address,
		Name:              p.Attributes.Name,
		ReserveUsd:        parseFloat(p.Attributes.ReserveInUsd),
		BaseTokenPriceUsd: parseFloat(p.Attributes.BaseTokenPriceUsd),
	}
}

// tradesResponse is the JSON:API envelope of the pool-trades endpoint.
type tradesResponse struct {
	Data []apiTrade `json:"data"`
}

type apiTrade struct {
	ID         string `json:"id"`
	Attributes struct {
		Kind             string `json:"kind"`
		TxFromAddress    string `json:"tx_from_address"`
		VolumeInUsd      string `json:"volume_in_usd"`
		FromTokenAddress string `json:"from_token_address"`
		ToTokenAddress   string `json:"to_token_address"`
		FromTokenAmount  string `json:"from_token_amount"`
		ToTokenAmount    string `json:"to_token_amount"`
		BlockTimestamp   string `json:"block_timestamp"` // RFC 3339
	} `json:"attributes"`
}

func (t *apiTrade) toTrade() Trade {
	var ts int64
	if parsed, err := time.Parse(time.RFC3339, t.Attributes.BlockTimestamp); err == nil {
		ts = parsed.Unix()
	}
	return Trade{
		Wallet:           t.Attributes.TxFromAddress,
		Kind:             t.Attributes.Kind,
		VolumeUsd:        parseFloat(t.Attributes.VolumeInUsd),
		FromTokenAddress: t.Attributes.FromTokenAddress,
		ToTokenAddress:   t.Attributes.ToTokenAddress,
		FromTokenAmount:  parseFloat(t.Attributes.FromTokenAmount),
		ToTokenAmount:    parseFloat(t.Attributes.ToTokenAmount),
		Timestamp:        ts,
	}
}
