package helius

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopHolders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []any  `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getTokenLargestAccounts", req.Method)
		require.Len(t, req.Params, 1)
		assert.Equal(t, "TokenMint", req.Params[0])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"value":[
			{"address":"acct1","uiAmount":1000000.5},
			{"address":"acct2","uiAmount":0},
			{"address":"acct3","uiAmount":null},
			{"address":"acct4","uiAmount":250000}
		]}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	holders, err := c.TopHolders(context.Background(), "TokenMint")
	require.NoError(t, err)

	// Zero and null balances are dropped.
	require.Len(t, holders, 2)
	assert.Equal(t, TokenHolder{Address: "acct1", UIAmount: 1000000.5}, holders[0])
	assert.Equal(t, TokenHolder{Address: "acct4", UIAmount: 250000}, holders[1])
}

func TestTopHoldersRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"Invalid param: could not find mint"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.TopHolders(context.Background(), "BadMint")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not find mint")
}
