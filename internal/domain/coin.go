package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Coin struct {
	ID     int64
	Name   string
	Symbol string
	Color  string
}

// CoinPrice is the 1:1 snapshot kept current by the price refresh job.
// Change and IsPositive are nil when the feed returned no 24h change.
type CoinPrice struct {
	CoinID     int64
	Price      decimal.Decimal
	Change     *decimal.Decimal
	IsPositive *bool
	UpdatedAt  time.Time
}

type Favorite struct {
	UserID    uuid.UUID
	CoinID    int64
	CreatedAt time.Time
}

// Log is an immutable audit record, written once per successful dispatch.
type Log struct {
	ID            int64
	UserID        uuid.UUID
	CoinID        int64
	NotifiedAt    time.Time
	Price         decimal.Decimal
	ChangePercent *decimal.Decimal
	Message       string
}

// CoinLogCount is one row of the per-coin dispatch tally.
type CoinLogCount struct {
	CoinID int64
	Name   string
	Symbol string
	Count  int64
}

type LogStats struct {
	Total    int64
	Recent   int64
	TopCoins []CoinLogCount
}
