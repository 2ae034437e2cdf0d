// Package helius is a minimal Solana JSON-RPC client used for top-holder
// snapshots of a token mint.
package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a Solana RPC endpoint (typically Helius mainnet RPC).
type Client struct {
	rpcURL     string
	httpClient *http.Client
}

// NewClient creates a new RPC client.
//
// rpcURL is the full RPC endpoint including any api-key query parameter,
// e.g. "https://mainnet.helius-rpc.com/?api-key=...".
func NewClient(rpcURL string) *Client {
	return &Client{
		rpcURL: rpcURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// TokenHolder is one entry of a largest-accounts snapshot. Address is the
// token account, not the owning wallet; for ranking purposes the distinction
// does not matter, the account is a stable per-holder identifier.
type TokenHolder struct {
	Address  string
	UIAmount float64
}

// rpcRequest is the standard JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TopHolders returns the token's largest accounts via getTokenLargestAccounts
// (the RPC caps the response at 20 accounts).
func (c *Client) TopHolders(ctx context.Context, tokenMint string) ([]TokenHolder, error) {
	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getTokenLargestAccounts",
		Params:  []any{tokenMint},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("helius: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("helius: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("helius: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("helius: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("helius: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Result struct {
			Value []struct {
				Address  string   `json:"address"`
				UIAmount *float64 `json:"uiAmount"`
			} `json:"value"`
		} `json:"result"`
		Error *rpcError `json:"error"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("helius: decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("helius: rpc error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}

	holders := make([]TokenHolder, 0, len(parsed.Result.Value))
	for _, v := range parsed.Result.Value {
		if v.UIAmount == nil || *v.UIAmount <= 0 {
			continue
		}
		holders = append(holders, TokenHolder{Address: v.Address, UIAmount: *v.UIAmount})
	}

	return holders, nil
}
