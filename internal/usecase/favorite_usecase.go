package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/google/uuid"
)

// FavoriteCoin is a favorite joined with the coin and its price snapshot,
// the shape the mobile favorites screen renders.
type FavoriteCoin struct {
	Coin      domain.Coin
	Price     *domain.CoinPrice
	CreatedAt string
}

type FavoriteUsecase struct {
	favorites domain.FavoriteRepository
	users     domain.UserRepository
	coins     domain.CoinRepository
	prices    domain.CoinPriceRepository
}

func NewFavoriteUsecase(favorites domain.FavoriteRepository, users domain.UserRepository, coins domain.CoinRepository, prices domain.CoinPriceRepository) *FavoriteUsecase {
	return &FavoriteUsecase{favorites: favorites, users: users, coins: coins, prices: prices}
}

func (u *FavoriteUsecase) Add(ctx context.Context, userID uuid.UUID, coinID int64) (*domain.Favorite, error) {
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := u.coins.GetByID(ctx, coinID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCoinNotFound
		}
		return nil, err
	}

	favorite := &domain.Favorite{UserID: userID, CoinID: coinID}
	if err := u.favorites.Create(ctx, favorite); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrFavoriteExists
		}
		return nil, err
	}
	return favorite, nil
}

// IsFavorite reports whether the pair exists. Unknown users or coins just
// read as "not favorited"; the mobile client polls this per coin card.
func (u *FavoriteUsecase) IsFavorite(ctx context.Context, userID uuid.UUID, coinID int64) (bool, error) {
	return u.favorites.Exists(ctx, userID, coinID)
}

func (u *FavoriteUsecase) Remove(ctx context.Context, userID uuid.UUID, coinID int64) error {
	if err := u.favorites.Delete(ctx, userID, coinID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}
	return nil
}

func (u *FavoriteUsecase) ListForUser(ctx context.Context, userID uuid.UUID) ([]FavoriteCoin, error) {
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	favorites, err := u.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]FavoriteCoin, 0, len(favorites))
	for _, favorite := range favorites {
		coin, err := u.coins.GetByID(ctx, favorite.CoinID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		entry := FavoriteCoin{Coin: *coin, CreatedAt: favorite.CreatedAt.UTC().Format(time.RFC3339)}
		price, err := u.prices.GetByCoinID(ctx, favorite.CoinID)
		if err == nil {
			entry.Price = price
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, nil
}

type LogUsecase struct {
	logs  domain.LogRepository
	users domain.UserRepository
	now   func() time.Time
}

func NewLogUsecase(logs domain.LogRepository, users domain.UserRepository) *LogUsecase {
	return &LogUsecase{logs: logs, users: users, now: time.Now}
}

func (u *LogUsecase) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Log, error) {
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u.logs.ListByUser(ctx, userID, limit)
}

// ListAll is the operator view across all users, newest first.
func (u *LogUsecase) ListAll(ctx context.Context, limit int) ([]domain.Log, error) {
	return u.logs.ListAll(ctx, limit)
}

// StatsForUser summarizes dispatch history: total rows, rows from the last
// seven days, and the five most-notified coins.
func (u *LogUsecase) StatsForUser(ctx context.Context, userID uuid.UUID) (*domain.LogStats, error) {
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	recentSince := u.now().UTC().AddDate(0, 0, -7)
	return u.logs.Stats(ctx, userID, recentSince)
}
