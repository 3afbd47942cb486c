package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"go.uber.org/zap"
)

// geckoIDBySymbol maps our ticker symbols to CoinGecko asset identifiers.
// Symbols without a mapping are skipped by the refresh, not treated as
// fatal.
var geckoIDBySymbol = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"USDT":  "tether",
	"BNB":   "binancecoin",
	"SOL":   "solana",
	"USDC":  "usd-coin",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"TRX":   "tron",
	"AVAX":  "avalanche-2",
	"SHIB":  "shiba-inu",
	"DOT":   "polkadot",
	"LINK":  "chainlink",
	"BCH":   "bitcoin-cash",
	"NEAR":  "near",
	"MATIC": "matic-network",
	"LTC":   "litecoin",
	"ICP":   "internet-computer",
	"UNI":   "uniswap",
	"DAI":   "dai",
	"ATOM":  "cosmos",
	"XLM":   "stellar",
	"XMR":   "monero",
	"ETC":   "ethereum-classic",
	"HBAR":  "hedera-hashgraph",
	"FIL":   "filecoin",
	"APT":   "aptos",
	"ARB":   "arbitrum",
	"HYPE":  "hyperliquid",
}

// PriceRefresher pulls current quotes for every mapped coin and replaces
// the snapshots in one transaction: either every resolvable coin is
// updated, or the refresh rolls back and the error goes to the caller.
type PriceRefresher struct {
	coins  domain.CoinRepository
	prices domain.CoinPriceRepository
	feed   domain.PriceFeed
	logger *zap.Logger
	now    func() time.Time
}

func NewPriceRefresher(coins domain.CoinRepository, prices domain.CoinPriceRepository, feed domain.PriceFeed, logger *zap.Logger) *PriceRefresher {
	return &PriceRefresher{
		coins:  coins,
		prices: prices,
		feed:   feed,
		logger: logger,
		now:    time.Now,
	}
}

// RefreshAll returns how many snapshots were written.
func (r *PriceRefresher) RefreshAll(ctx context.Context) (int, error) {
	coins, err := r.coins.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list coins: %w", err)
	}
	if len(coins) == 0 {
		r.logger.Info("price refresh skipped, no coins tracked")
		return 0, nil
	}

	ids := make([]string, 0, len(coins))
	coinByGeckoID := make(map[string]domain.Coin, len(coins))
	skipped := 0
	for _, coin := range coins {
		geckoID, ok := geckoIDBySymbol[strings.ToUpper(coin.Symbol)]
		if !ok {
			r.logger.Warn("no price feed mapping for symbol", zap.String("symbol", coin.Symbol))
			skipped++
			continue
		}
		ids = append(ids, geckoID)
		coinByGeckoID[geckoID] = coin
	}
	if len(ids) == 0 {
		r.logger.Warn("price refresh found no mappable coins", zap.Int("skipped", skipped))
		return 0, nil
	}

	quotes, err := r.feed.SimplePrices(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("fetch prices: %w", err)
	}

	now := r.now().UTC()
	snapshots := make([]domain.CoinPrice, 0, len(quotes))
	for geckoID, quote := range quotes {
		coin, ok := coinByGeckoID[geckoID]
		if !ok {
			continue
		}
		snapshot := domain.CoinPrice{
			CoinID:    coin.ID,
			Price:     quote.USD,
			Change:    quote.Change24h,
			UpdatedAt: now,
		}
		if quote.Change24h != nil {
			positive := quote.Change24h.IsPositive()
			snapshot.IsPositive = &positive
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := r.prices.UpsertAll(ctx, snapshots); err != nil {
		return 0, fmt.Errorf("upsert prices: %w", err)
	}

	r.logger.Info(
		"price refresh complete",
		zap.Int("updated", len(snapshots)),
		zap.Int("unmapped", skipped),
	)
	return len(snapshots), nil
}
