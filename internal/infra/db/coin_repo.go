package db

import (
	"context"
	"errors"

	"github.com/cryptopulse/backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CoinRepository struct {
	db *gorm.DB
}

func NewCoinRepository(db *gorm.DB) *CoinRepository {
	return &CoinRepository{db: db}
}

func (r *CoinRepository) Create(ctx context.Context, coin *domain.Coin) error {
	model := coinModel{Name: coin.Name, Symbol: coin.Symbol, Color: coin.Color}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicate
		}
		return err
	}
	coin.ID = model.ID
	return nil
}

func (r *CoinRepository) GetByID(ctx context.Context, id int64) (*domain.Coin, error) {
	var model coinModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.Coin{ID: model.ID, Name: model.Name, Symbol: model.Symbol, Color: model.Color}, nil
}

func (r *CoinRepository) List(ctx context.Context) ([]domain.Coin, error) {
	var models []coinModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	coins := make([]domain.Coin, 0, len(models))
	for _, model := range models {
		coins = append(coins, domain.Coin{ID: model.ID, Name: model.Name, Symbol: model.Symbol, Color: model.Color})
	}
	return coins, nil
}

// Delete removes the coin; the price snapshot, favorites, logs and
// notifications referencing it go with it via FK cascade.
func (r *CoinRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&coinModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type CoinPriceRepository struct {
	db *gorm.DB
}

func NewCoinPriceRepository(db *gorm.DB) *CoinPriceRepository {
	return &CoinPriceRepository{db: db}
}

func (r *CoinPriceRepository) GetByCoinID(ctx context.Context, coinID int64) (*domain.CoinPrice, error) {
	var model coinPriceModel
	if err := r.db.WithContext(ctx).First(&model, "coin_id = ?", coinID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	price := mapPriceToDomain(model)
	return &price, nil
}

func (r *CoinPriceRepository) List(ctx context.Context) ([]domain.CoinPrice, error) {
	var models []coinPriceModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	prices := make([]domain.CoinPrice, 0, len(models))
	for _, model := range models {
		prices = append(prices, mapPriceToDomain(model))
	}
	return prices, nil
}

func (r *CoinPriceRepository) UpsertAll(ctx context.Context, prices []domain.CoinPrice) error {
	if len(prices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, price := range prices {
			model := coinPriceModel{
				CoinID:     price.CoinID,
				Price:      price.Price,
				Change:     price.Change,
				IsPositive: price.IsPositive,
				UpdatedAt:  price.UpdatedAt,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "coin_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"price", "change", "is_positive", "updated_at"}),
			}).Create(&model).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func mapPriceToDomain(model coinPriceModel) domain.CoinPrice {
	return domain.CoinPrice{
		CoinID:     model.CoinID,
		Price:      model.Price,
		Change:     model.Change,
		IsPositive: model.IsPositive,
		UpdatedAt:  model.UpdatedAt,
	}
}
