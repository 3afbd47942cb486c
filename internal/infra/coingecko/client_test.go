package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, rate.Inf, zap.NewNop())
}

func TestSimplePrices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "true", r.URL.Query().Get("include_24hr_change"))
		w.Write([]byte(`{
			"bitcoin": {"usd": 43250.12, "usd_24h_change": 2.4},
			"ethereum": {"usd": 2300}
		}`))
	})

	quotes, err := client.SimplePrices(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	btc := quotes["bitcoin"]
	assert.True(t, btc.USD.Equal(decimal.NewFromFloat(43250.12)))
	require.NotNil(t, btc.Change24h)
	assert.True(t, btc.Change24h.Equal(decimal.NewFromFloat(2.4)))

	eth := quotes["ethereum"]
	assert.True(t, eth.USD.Equal(decimal.NewFromInt(2300)))
	assert.Nil(t, eth.Change24h)
}

func TestSimplePricesSkipsEntriesWithoutPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin": {"usd": 43250}, "unlisted-token": {}}`))
	})

	quotes, err := client.SimplePrices(context.Background(), []string{"bitcoin", "unlisted-token"})
	require.NoError(t, err)
	assert.Len(t, quotes, 1)
	_, ok := quotes["unlisted-token"]
	assert.False(t, ok)
}

func TestSimplePricesUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.SimplePrices(context.Background(), []string{"bitcoin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSimplePricesEmptyIDs(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	quotes, err := client.SimplePrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, quotes)
	assert.False(t, called, "no request without ids")
}
