package db

import (
	"context"
	"errors"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	model := mapNotificationToModel(notification)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	notification.CreatedAt = model.CreatedAt
	notification.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var model notificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	notification := mapNotificationToDomain(model)
	return &notification, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var models []notificationModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapNotificationsToDomain(models), nil
}

// ListOverdue returns active notifications whose next_scheduled_at has
// passed. NULL next_scheduled_at rows are excluded; they must be scheduled
// first. Ordering is fixed so a scan is deterministic.
func (r *NotificationRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Notification, error) {
	var models []notificationModel
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND next_scheduled_at IS NOT NULL AND next_scheduled_at <= ?", true, now).
		Order("next_scheduled_at, id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapNotificationsToDomain(models), nil
}

func (r *NotificationRepository) ExistsActive(ctx context.Context, userID uuid.UUID, coinID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND coin_id = ? AND is_active = ?", userID, coinID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *NotificationRepository) Update(ctx context.Context, notification *domain.Notification) error {
	model := mapNotificationToModel(notification)
	result := r.db.WithContext(ctx).Model(&notificationModel{}).Where("id = ?", notification.ID).Updates(map[string]any{
		"frequency_type":    model.FrequencyType,
		"interval_hours":    model.IntervalHours,
		"preferred_time":    model.PreferredTime,
		"preferred_day":     model.PreferredDay,
		"is_active":         model.IsActive,
		"next_scheduled_at": model.NextScheduledAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&notificationModel{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecordDispatch advances the schedule and writes the audit log entry in
// one transaction, so a crash cannot log a send without rescheduling it.
func (r *NotificationRepository) RecordDispatch(ctx context.Context, id uuid.UUID, entry *domain.Log, sentAt, nextAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&notificationModel{}).Where("id = ?", id).Updates(map[string]any{
			"last_sent_at":      sentAt,
			"next_scheduled_at": nextAt,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		model := mapLogToModel(entry)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		entry.ID = model.ID
		return nil
	})
}

func mapNotificationsToDomain(models []notificationModel) []domain.Notification {
	notifications := make([]domain.Notification, 0, len(models))
	for _, model := range models {
		notifications = append(notifications, mapNotificationToDomain(model))
	}
	return notifications
}

func mapNotificationToDomain(model notificationModel) domain.Notification {
	return domain.Notification{
		ID:              model.ID,
		UserID:          model.UserID,
		CoinID:          model.CoinID,
		Schedule:        scheduleFromColumns(model),
		IsActive:        model.IsActive,
		LastSentAt:      model.LastSentAt,
		NextScheduledAt: model.NextScheduledAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func mapNotificationToModel(notification *domain.Notification) notificationModel {
	frequency, interval, at, day := scheduleToColumns(notification.Schedule)
	return notificationModel{
		ID:              notification.ID,
		UserID:          notification.UserID,
		CoinID:          notification.CoinID,
		FrequencyType:   frequency,
		IntervalHours:   interval,
		PreferredTime:   at,
		PreferredDay:    day,
		IsActive:        notification.IsActive,
		LastSentAt:      notification.LastSentAt,
		NextScheduledAt: notification.NextScheduledAt,
		CreatedAt:       notification.CreatedAt,
		UpdatedAt:       notification.UpdatedAt,
	}
}

// scheduleFromColumns rebuilds the policy through the domain constructors.
// A row that fails validation maps to the zero Schedule, which NextAfter
// rejects; the dispatcher then skips it as permanently broken instead of
// guessing a fallback interval.
func scheduleFromColumns(model notificationModel) domain.Schedule {
	switch domain.Frequency(model.FrequencyType) {
	case domain.FrequencyHourly:
		return domain.NewHourlySchedule()
	case domain.FrequencyDaily:
		if model.PreferredTime == nil {
			return domain.Schedule{}
		}
		at, err := domain.ParseTimeOfDay(*model.PreferredTime)
		if err != nil {
			return domain.Schedule{}
		}
		return domain.NewDailySchedule(at)
	case domain.FrequencyWeekly:
		if model.PreferredTime == nil || model.PreferredDay == nil {
			return domain.Schedule{}
		}
		at, err := domain.ParseTimeOfDay(*model.PreferredTime)
		if err != nil {
			return domain.Schedule{}
		}
		schedule, err := domain.NewWeeklySchedule(domain.Weekday(*model.PreferredDay), at)
		if err != nil {
			return domain.Schedule{}
		}
		return schedule
	case domain.FrequencyCustom:
		if model.IntervalHours == nil {
			return domain.Schedule{}
		}
		schedule, err := domain.NewCustomSchedule(*model.IntervalHours)
		if err != nil {
			return domain.Schedule{}
		}
		return schedule
	}
	return domain.Schedule{}
}

func scheduleToColumns(schedule domain.Schedule) (frequency string, interval *int, at *string, day *int) {
	frequency = string(schedule.Frequency())
	switch schedule.Frequency() {
	case domain.FrequencyCustom:
		hours := schedule.IntervalHours()
		interval = &hours
	case domain.FrequencyDaily:
		formatted := schedule.At().String()
		at = &formatted
	case domain.FrequencyWeekly:
		formatted := schedule.At().String()
		at = &formatted
		dayNum := int(schedule.Day())
		day = &dayNum
	}
	return frequency, interval, at, day
}
