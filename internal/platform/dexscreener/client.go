// Package dexscreener is the REST client for the DexScreener public API,
// which provides aggregate pair statistics (price, liquidity, 24h volume and
// transaction counts) for a token across chains.
package dexscreener

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

// Client is the DexScreener API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new DexScreener client.
//
// baseURL is the API root, e.g. "https://api.dexscreener.com".
func NewClient(baseURL string, ratePerSec float64, burst int) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
	}
}

// TokenPairs returns all pairs trading the given token on the given chain.
func (c *Client) TokenPairs(ctx context.Context, chainID, tokenAddress string) ([]Pair, error) {
	path := fmt.Sprintf("/latest/dex/tokens/%s", url.PathEscape(tokenAddress))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("dexscreener: get pairs %s: %w", tokenAddress, err)
	}

	var resp tokensResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("dexscreener: decode pairs: %w", err)
	}

	pairs := make([]Pair, 0, len(resp.Pairs))
	for i := range resp.Pairs {
		if !strings.EqualFold(resp.Pairs[i].ChainID, chainID) {
			continue
		}
		pairs = append(pairs, resp.Pairs[i])
	}

	return pairs, nil
}

// MostLiquidPair returns the pair with the highest USD liquidity for the
// token on the given chain, or domain.ErrNotFound when none exists.
func (c *Client) MostLiquidPair(ctx context.Context, chainID, tokenAddress string) (Pair, error) {
	pairs, err := c.TokenPairs(ctx, chainID, tokenAddress)
	if err != nil {
		return Pair{}, err
	}
	if len(pairs) == 0 {
		return Pair{}, fmt.Errorf("dexscreener: %w: token=%s chain=%s", domain.ErrNotFound, tokenAddress, chainID)
	}

	best := pairs[0]
	for _, p := range pairs[1:] {
		if p.Liquidity.Usd > best.Liquidity.Usd {
			best = p
		}
	}
	return best, nil
}

// TokenPrice returns the USD price of the token taken from its most liquid
// pair, or 0 with domain.ErrNotFound when no pair carries a price.
func (c *Client) TokenPrice(ctx context.Context, chainID, tokenAddress string) (float64, error) {
	pair, err := c.MostLiquidPair(ctx, chainID, tokenAddress)
	if err != nil {
		return 0, err
	}

	price := pair.PriceUsdFloat()
	if price <= 0 {
		return 0, fmt.Errorf("dexscreener: %w: token=%s", domain.ErrNotFound, tokenAddress)
	}
	return price, nil
}

// doGet sends an unauthenticated GET request to the DexScreener API.
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

// tokensResponse is the envelope of the /latest/dex/tokens endpoint.
type tokensResponse struct {
	Pairs []Pair `json:"pairs"`
}

// Pair is one trading pair as DexScreener reports it.
type Pair struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	PairAddress string `json:"pairAddress"`
	PriceUsd    string `json:"priceUsd"`
	Liquidity   struct {
		Usd float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	Txns struct {
		H24 struct {
			Buys  int `json:"buys"`
			Sells int `json:"sells"`
		} `json:"h24"`
	} `json:"txns"`
}

// PriceUsdFloat parses the string-encoded pair price; 0 when unset.
func (p Pair) PriceUsdFloat() float64 {
	if p.PriceUsd == "" {
		return 0
	}
	f, err := strconv.ParseFloat(p.PriceUsd, 64)
	if err != nil {
		return 0
	}
	return f
}
