package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Client queries the CoinGecko simple price endpoint. Calls are rate
// limited client-side; the free tier tolerates roughly one call per few
// seconds and bans offenders.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, rps rate.Limit, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rps, 1),
		logger:  logger,
	}
}

type simplePriceEntry struct {
	USD          *decimal.Decimal `json:"usd"`
	USD24hChange *decimal.Decimal `json:"usd_24h_change"`
}

func (c *Client) SimplePrices(ctx context.Context, ids []string) (map[string]domain.PriceQuote, error) {
	if len(ids) == 0 {
		return map[string]domain.PriceQuote{}, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", "usd")
	query.Set("include_24hr_change", "true")
	endpoint := c.baseURL + "/simple/price?" + query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("coingecko request failed", zap.Int("ids", len(ids)), zap.Error(err))
		return nil, err
	}
	defer response.Body.Close()

	c.logger.Info(
		"coingecko request complete",
		zap.Int("ids", len(ids)),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("coingecko: status %d", response.StatusCode)
	}

	var payload map[string]simplePriceEntry
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, err
	}

	quotes := make(map[string]domain.PriceQuote, len(payload))
	for id, entry := range payload {
		if entry.USD == nil {
			continue
		}
		quotes[id] = domain.PriceQuote{USD: *entry.USD, Change24h: entry.USD24hChange}
	}
	return quotes, nil
}
