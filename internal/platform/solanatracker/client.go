// Package solanatracker is the REST client for the Solana Tracker data API,
// which provides per-token swap history on Solana.
package solanatracker

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

// Client is the Solana Tracker API client. All endpoints require an API key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Solana Tracker client.
//
// baseURL is the data API root, e.g. "https://data.solanatracker.io".
// ratePerSec bounds outbound request rate; burst is the limiter bucket size.
func NewClient(baseURL, apiKey string, ratePerSec float64, burst int) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
	}
}

// GetTokenTrades returns the most recent swap records for a token mint,
// newest first, capped at limit. It fails fast with domain.ErrMissingAPIKey
// when no API key is configured.
func (c *Client) GetTokenTrades(ctx context.Context, tokenMint string, limit int) ([]Trade, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("solanatracker: %w", domain.ErrMissingAPIKey)
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	path := fmt.Sprintf("/trades/%s?%s", url.PathEscape(tokenMint), params.Encode())

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("solanatracker: get trades %s: %w", tokenMint, err)
	}

	var resp tradesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("solanatracker: decode trades: %w", err)
	}

	return resp.Trades, nil
}

// doGet sends an authenticated GET request to the data API.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

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
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, bodyStr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, bodyStr)
	}
}
