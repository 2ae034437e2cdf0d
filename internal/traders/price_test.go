package traders

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/dexscreener"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/geckoterminal"
	"github.com/stretchr/testify/assert"
)

func cascadeUnderTest(geckoURL, dexURL string) *CascadeResolver {
	return NewCascadeResolver(
		geckoterminal.NewClient(geckoURL, 100, 100),
		dexscreener.NewClient(dexURL, 100, 100),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestCascadeResolverPrefersPoolPrice(t *testing.T) {
	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"id":"p","attributes":{"address":"0xpool",
			"reserve_in_usd":"100000","base_token_price_usd":"1.23"}}]}`)
	}))
	defer gecko.Close()
	dex := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("aggregate source must not be consulted when the pool price resolves")
	}))
	defer dex.Close()

	price, source := cascadeUnderTest(gecko.URL, dex.URL).Resolve(context.Background(), baseChain(), "0xtoken")
	assert.Equal(t, 1.23, price)
	assert.Equal(t, "geckoterminal-pool", source)
}

func TestCascadeResolverFallsBackToAggregate(t *testing.T) {
	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer gecko.Close()
	dex := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"pairs":[{"chainId":"base","priceUsd":"0.0042",
			"liquidity":{"usd":50000},"volume":{"h24":10000},
			"txns":{"h24":{"buys":10,"sells":10}}}]}`)
	}))
	defer dex.Close()

	price, source := cascadeUnderTest(gecko.URL, dex.URL).Resolve(context.Background(), baseChain(), "0xtoken")
	assert.Equal(t, 0.0042, price)
	assert.Equal(t, "dexscreener", source)
}

func TestCascadeResolverNoPrice(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[],"pairs":[]}`)
	}))
	defer empty.Close()

	price, source := cascadeUnderTest(empty.URL, empty.URL).Resolve(context.Background(), baseChain(), "0xtoken")
	assert.Zero(t, price)
	assert.Empty(t, source)
}
