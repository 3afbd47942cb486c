package db

import (
	"context"
	"errors"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Create(ctx context.Context, favorite *domain.Favorite) error {
	model := favoriteModel{UserID: favorite.UserID, CoinID: favorite.CoinID}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicate
		}
		return err
	}
	favorite.CreatedAt = model.CreatedAt
	return nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, userID uuid.UUID, coinID int64) error {
	result := r.db.WithContext(ctx).Where("user_id = ? AND coin_id = ?", userID, coinID).Delete(&favoriteModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID uuid.UUID, coinID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&favoriteModel{}).
		Where("user_id = ? AND coin_id = ?", userID, coinID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	var models []favoriteModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}
	favorites := make([]domain.Favorite, 0, len(models))
	for _, model := range models {
		favorites = append(favorites, domain.Favorite{UserID: model.UserID, CoinID: model.CoinID, CreatedAt: model.CreatedAt})
	}
	return favorites, nil
}

type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) Create(ctx context.Context, entry *domain.Log) error {
	model := mapLogToModel(entry)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	entry.ID = model.ID
	return nil
}

func (r *LogRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Log, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("notified_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var models []logModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entries := make([]domain.Log, 0, len(models))
	for _, model := range models {
		entries = append(entries, mapLogToDomain(model))
	}
	return entries, nil
}

func (r *LogRepository) ListAll(ctx context.Context, limit int) ([]domain.Log, error) {
	query := r.db.WithContext(ctx).Order("notified_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var models []logModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entries := make([]domain.Log, 0, len(models))
	for _, model := range models {
		entries = append(entries, mapLogToDomain(model))
	}
	return entries, nil
}

func (r *LogRepository) Stats(ctx context.Context, userID uuid.UUID, recentSince time.Time) (*domain.LogStats, error) {
	stats := &domain.LogStats{}

	err := r.db.WithContext(ctx).
		Model(&logModel{}).
		Where("user_id = ?", userID).
		Count(&stats.Total).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&logModel{}).
		Where("user_id = ? AND notified_at >= ?", userID, recentSince).
		Count(&stats.Recent).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&logModel{}).
		Select("logs.coin_id, coins.name, coins.symbol, count(logs.id) AS count").
		Joins("JOIN coins ON coins.id = logs.coin_id").
		Where("logs.user_id = ?", userID).
		Group("logs.coin_id, coins.name, coins.symbol").
		Order("count DESC").
		Limit(5).
		Scan(&stats.TopCoins).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func mapLogToModel(entry *domain.Log) logModel {
	return logModel{
		ID:            entry.ID,
		UserID:        entry.UserID,
		CoinID:        entry.CoinID,
		NotifiedAt:    entry.NotifiedAt,
		Price:         entry.Price,
		ChangePercent: entry.ChangePercent,
		Message:       entry.Message,
	}
}

func mapLogToDomain(model logModel) domain.Log {
	return domain.Log{
		ID:            model.ID,
		UserID:        model.UserID,
		CoinID:        model.CoinID,
		NotifiedAt:    model.NotifiedAt,
		Price:         model.Price,
		ChangePercent: model.ChangePercent,
		Message:       model.Message,
	}
}
