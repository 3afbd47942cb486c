package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRefresherFixture(coins ...domain.Coin) (*PriceRefresher, *fakeCoinRepo, *fakePriceRepo, *fakePriceFeed, time.Time) {
	coinRepo := newFakeCoinRepo(coins...)
	priceRepo := newFakePriceRepo()
	feed := &fakePriceFeed{quotes: make(map[string]domain.PriceQuote)}

	refresher := NewPriceRefresher(coinRepo, priceRepo, feed, zap.NewNop())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	refresher.now = func() time.Time { return now }
	return refresher, coinRepo, priceRepo, feed, now
}

func TestRefreshAllWritesSnapshots(t *testing.T) {
	refresher, _, prices, feed, now := newRefresherFixture(
		domain.Coin{ID: 1, Name: "Bitcoin", Symbol: "BTC"},
		domain.Coin{ID: 2, Name: "Ethereum", Symbol: "eth"}, // mapping is case-insensitive
	)

	change := decimal.NewFromFloat(-1.8)
	feed.quotes["bitcoin"] = domain.PriceQuote{USD: decimal.NewFromInt(43250), Change24h: &change}
	feed.quotes["ethereum"] = domain.PriceQuote{USD: decimal.NewFromInt(2300)}

	updated, err := refresher.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	require.Len(t, feed.requested, 1)
	assert.ElementsMatch(t, []string{"bitcoin", "ethereum"}, feed.requested[0])

	// Single transactional write covering both coins.
	require.Len(t, prices.upserts, 1)
	assert.Len(t, prices.upserts[0], 2)

	btc := prices.prices[1]
	assert.True(t, btc.Price.Equal(decimal.NewFromInt(43250)))
	require.NotNil(t, btc.Change)
	assert.True(t, btc.Change.Equal(change))
	require.NotNil(t, btc.IsPositive)
	assert.False(t, *btc.IsPositive)
	assert.Equal(t, now, btc.UpdatedAt)

	// No 24h change from the feed means no direction flag either.
	eth := prices.prices[2]
	assert.Nil(t, eth.Change)
	assert.Nil(t, eth.IsPositive)
}

func TestRefreshAllSkipsUnmappedSymbols(t *testing.T) {
	refresher, _, prices, feed, _ := newRefresherFixture(
		domain.Coin{ID: 1, Name: "Bitcoin", Symbol: "BTC"},
		domain.Coin{ID: 9, Name: "Obscurium", Symbol: "OBSC"},
	)
	feed.quotes["bitcoin"] = domain.PriceQuote{USD: decimal.NewFromInt(43250)}

	updated, err := refresher.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	require.Len(t, feed.requested, 1)
	assert.Equal(t, []string{"bitcoin"}, feed.requested[0])
	_, ok := prices.prices[9]
	assert.False(t, ok)
}

func TestRefreshAllNoCoinsIsNoop(t *testing.T) {
	refresher, _, _, feed, _ := newRefresherFixture()

	updated, err := refresher.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Empty(t, feed.requested, "feed untouched with nothing to quote")
}

func TestRefreshAllFeedFailureAborts(t *testing.T) {
	refresher, _, prices, feed, _ := newRefresherFixture(domain.Coin{ID: 1, Name: "Bitcoin", Symbol: "BTC"})
	feed.err = errors.New("429 too many requests")

	_, err := refresher.RefreshAll(context.Background())
	require.Error(t, err)
	assert.Empty(t, prices.upserts, "no partial snapshot on feed failure")
}

func TestRefreshAllUpsertFailurePropagates(t *testing.T) {
	refresher, _, prices, feed, _ := newRefresherFixture(domain.Coin{ID: 1, Name: "Bitcoin", Symbol: "BTC"})
	feed.quotes["bitcoin"] = domain.PriceQuote{USD: decimal.NewFromInt(43250)}
	prices.upsertErr = errors.New("deadlock detected")

	_, err := refresher.RefreshAll(context.Background())
	require.Error(t, err)
}
