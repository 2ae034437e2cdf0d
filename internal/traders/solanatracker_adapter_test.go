package traders

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/platform/solanatracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solanaChain() domain.Chain {
	ch, ok := domain.ChainByID("solana")
	if !ok {
		panic("solana chain missing from registry")
	}
	return ch
}

func TestSolanaTrackerAdapterNormalizesSwaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"trades":[
			{"tx":"s1","wallet":"alice","time":1755000000123,"volume":500,
			 "from":{"address":"USDC","amount":500},"to":{"address":"MINT","amount":1000}},
			{"tx":"s2","wallet":"alice","time":1755000060456,"volume":800,
			 "from":{"address":"MINT","amount":900},"to":{"address":"USDC","amount":800}},
			{"tx":"s3","wallet":"","time":1755000070000,"volume":100,
			 "from":{"address":"USDC","amount":100},"to":{"address":"MINT","amount":50}},
			{"tx":"s4","wallet":"whale","time":1755000080000,"volume":99000000,
			 "from":{"address":"USDC","amount":99000000},"to":{"address":"MINT","amount":1}},
			{"tx":"s5","wallet":"carol","time":1755000090000,"volume":40,
			 "from":{"address":"USDC","amount":40},"to":{"address":"OTHER","amount":10}}
		]}`)
	}))
	defer srv.Close()

	client := solanatracker.NewClient(srv.URL, "key", 100, 100)
	a := NewSolanaTrackerAdapter(client, 300, 25_000_000)

	p, err := a.Fetch(context.Background(), solanaChain(), "MINT", 0)
	require.NoError(t, err)

	assert.Equal(t, "solana-tracker-aggregated-solana", p.Source)
	assert.Equal(t, domain.TierAggregated, p.Tier)

	// The empty wallet, the anomaly-sized tick, and the unrelated pair are
	// all dropped at the boundary.
	require.Len(t, p.Events, 2)

	buyEvt := p.Events[0]
	assert.Equal(t, "alice", buyEvt.Wallet)
	assert.Equal(t, domain.SideBuy, buyEvt.Side)
	assert.Equal(t, 1000.0, buyEvt.TokenAmount)
	assert.Equal(t, 500.0, buyEvt.USDValue)
	assert.Equal(t, int64(1755000000), buyEvt.Timestamp, "millisecond timestamps are scaled to seconds")

	sellEvt := p.Events[1]
	assert.Equal(t, domain.SideSell, sellEvt.Side)
	assert.Equal(t, 900.0, sellEvt.TokenAmount)
}

func TestSolanaTrackerAdapterNoUsableTrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"trades":[]}`)
	}))
	defer srv.Close()

	a := NewSolanaTrackerAdapter(solanatracker.NewClient(srv.URL, "key", 100, 100), 300, 25_000_000)

	_, err := a.Fetch(context.Background(), solanaChain(), "MINT", 0)
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonNoTrades, fe.Reason)
}

func TestSolanaTrackerAdapterMissingKey(t *testing.T) {
	a := NewSolanaTrackerAdapter(solanatracker.NewClient("http://unused.invalid", "", 100, 100), 300, 25_000_000)

	_, err := a.Fetch(context.Background(), solanaChain(), "MINT", 0)
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonMissingAPIKey, fe.Reason)
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestSolanaTrackerAdapterUpstreamReasons(t *testing.T) {
	cases := []struct {
		status int
		reason string
	}{
		{http.StatusTooManyRequests, ReasonRateLimited},
		{http.StatusUnauthorized, ReasonUnauthorized},
		{http.StatusBadGateway, ReasonUpstream},
	}

	for _, tc := range cases {
		t.Run(tc.reason, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			a := NewSolanaTrackerAdapter(solanatracker.NewClient(srv.URL, "key", 100, 100), 300, 25_000_000)
			_, err := a.Fetch(context.Background(), solanaChain(), "MINT", 0)
			require.Error(t, err)

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.reason, fe.Reason)
		})
	}
}

func TestSolanaTrackerAdapterSolanaOnly(t *testing.T) {
	a := NewSolanaTrackerAdapter(nil, 300, 25_000_000)
	assert.True(t, a.Supports(solanaChain()))
	assert.False(t, a.Supports(baseChain()))
}
