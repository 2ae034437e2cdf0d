// Package geckoterminal is the REST client for the GeckoTerminal public API,
// which provides DEX pool discovery and recent pool trades across chains.
package geckoterminal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
	"golang.org/x/time/rate"
)

// Client is the GeckoTerminal API client. The public API needs no key.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new GeckoTerminal client.
//
// baseURL is the API root, e.g. "https://api.geckoterminal.com".
func NewClient(baseURL string, ratePerSec float64, burst int) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
	}
}

// TopPool returns the highest-liquidity pool trading the given token on the
// given network. It returns domain.ErrNoPool when the token has no pools.
func (c *Client) TopPool(ctx context.Context, network, tokenAddress string) (Pool, error) {
	path := fmt.Sprintf("/api/v2/networks/%s/tokens/%s/pools?page=1",
		url.PathEscape(network), url.PathEscape(tokenAddress))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return Pool{}, fmt.Errorf("geckoterminal: get pools %s: %w", tokenAddress, err)
	}

	var resp poolsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Pool{}, fmt.Errorf("geckoterminal: decode pools: %w", err)
	}

	var best Pool
	found := false
	for i := range resp.Data {
		p := resp.Data[i].toPool()
		if !found || p.ReserveUsd > best.ReserveUsd {
			best = p
			found = true
		}
	}
	if !found {
		return Pool{}, fmt.Errorf("geckoterminal: %w: token=%s network=%s", domain.ErrNoPool, tokenAddress, network)
	}

	return best, nil
}

// PoolTrades returns recent trades for a pool, newest first, capped at limit.
func (c *Client) PoolTrades(ctx context.Context, network, poolAddress string, limit int) ([]Trade, error) {
	path := fmt.Sprintf("/api/v2/networks/%s/pools/%s/trades",
		url.PathEscape(network), url.PathEscape(poolAddress))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("geckoterminal: get trades %s: %w", poolAddress, err)
	}

	var resp tradesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("geckoterminal: decode trades: %w", err)
	}

	trades := make([]Trade, 0, len(resp.Data))
	for i := range resp.Data {
		trades = append(trades, resp.Data[i].toTrade())
		if len(trades) >= limit {
			break
		}
	}

	return trades, nil
}

// doGet sends an unauthenticated GET request to the GeckoTerminal API.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkHTTPStatus maps non-2xx status codes to appropriate domain errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bodyStr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, bodyStr)
	}
}

// parseFloat converts GeckoTerminal's string-encoded numbers; malformed or
// empty values become 0 rather than an error, matching how sparsely some
// pool attributes are populated.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
