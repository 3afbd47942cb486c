package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/cryptopulse/backend/internal/domain"
)

// CoinWithPrice pairs a coin with its latest snapshot; Price is nil until
// the refresh job has seen the coin at least once.
type CoinWithPrice struct {
	Coin  domain.Coin
	Price *domain.CoinPrice
}

type CoinUsecase struct {
	coins  domain.CoinRepository
	prices domain.CoinPriceRepository
}

func NewCoinUsecase(coins domain.CoinRepository, prices domain.CoinPriceRepository) *CoinUsecase {
	return &CoinUsecase{coins: coins, prices: prices}
}

func (u *CoinUsecase) List(ctx context.Context) ([]CoinWithPrice, error) {
	coins, err := u.coins.List(ctx)
	if err != nil {
		return nil, err
	}
	prices, err := u.prices.List(ctx)
	if err != nil {
		return nil, err
	}
	byCoin := make(map[int64]domain.CoinPrice, len(prices))
	for _, price := range prices {
		byCoin[price.CoinID] = price
	}

	result := make([]CoinWithPrice, 0, len(coins))
	for _, coin := range coins {
		entry := CoinWithPrice{Coin: coin}
		if price, ok := byCoin[coin.ID]; ok {
			snapshot := price
			entry.Price = &snapshot
		}
		result = append(result, entry)
	}
	return result, nil
}

func (u *CoinUsecase) Get(ctx context.Context, id int64) (*CoinWithPrice, error) {
	coin, err := u.coins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCoinNotFound
		}
		return nil, err
	}
	entry := &CoinWithPrice{Coin: *coin}
	price, err := u.prices.GetByCoinID(ctx, id)
	if err == nil {
		entry.Price = price
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return entry, nil
}

func (u *CoinUsecase) Create(ctx context.Context, name, symbol, color string) (*domain.Coin, error) {
	coin := &domain.Coin{
		Name:   strings.TrimSpace(name),
		Symbol: strings.ToUpper(strings.TrimSpace(symbol)),
		Color:  strings.TrimSpace(color),
	}
	if err := u.coins.Create(ctx, coin); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrSymbolTaken
		}
		return nil, err
	}
	return coin, nil
}

func (u *CoinUsecase) Delete(ctx context.Context, id int64) error {
	if err := u.coins.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrCoinNotFound
		}
		return err
	}
	return nil
}
