package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceQuote is one coin's current value from the external feed.
// Change24h is nil when the feed has no 24h figure for the asset.
type PriceQuote struct {
	USD       decimal.Decimal
	Change24h *decimal.Decimal
}

// PriceFeed is the external price source, keyed by the feed's own asset
// identifiers (not our coin IDs).
type PriceFeed interface {
	SimplePrices(ctx context.Context, ids []string) (map[string]PriceQuote, error)
}
