package solanatracker

// tradesResponse is the envelope of the /trades/{mint} endpoint.
type tradesResponse struct {
	Trades []Trade `json:"trades"`
}

// Trade is one swap record. From and To describe the two legs of the swap;
// the leg whose mint equals the queried token tells which side the wallet
// was on (token in To means the wallet bought it).
type Trade struct {
	TxHash  string  `json:"tx"`
	Wallet  string  `json:"wallet"`
	Program string  `json:"program"`
	Time    int64   `json:"time"`   // unix milliseconds
	Volume  float64 `json:"volume"` // total USD value of the swap
	From    Leg     `json:"from"`
	To      Leg     `json:"to"`
}

// Leg is one side of a swap.
type Leg struct {
	Address string  `json:"address"` // mint
	Amount  float64 `json:"amount"`
}
