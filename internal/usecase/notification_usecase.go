package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/google/uuid"
)

// ScheduleInput is the wire-level recurrence request. BuildSchedule turns
// it into a validated domain.Schedule; anything malformed is rejected here,
// at creation time, never repaired later.
type ScheduleInput struct {
	FrequencyType string
	IntervalHours *int
	PreferredTime *string // "HH:MM"
	PreferredDay  *string // day name, case-insensitive
}

func BuildSchedule(input ScheduleInput) (domain.Schedule, error) {
	switch domain.Frequency(strings.ToLower(strings.TrimSpace(input.FrequencyType))) {
	case domain.FrequencyHourly:
		return domain.NewHourlySchedule(), nil

	case domain.FrequencyDaily:
		if input.PreferredTime == nil {
			return domain.Schedule{}, fmt.Errorf("%w: daily schedule needs preferred_time", domain.ErrInvalidSchedule)
		}
		at, err := domain.ParseTimeOfDay(*input.PreferredTime)
		if err != nil {
			return domain.Schedule{}, err
		}
		return domain.NewDailySchedule(at), nil

	case domain.FrequencyWeekly:
		if input.PreferredTime == nil || input.PreferredDay == nil {
			return domain.Schedule{}, fmt.Errorf("%w: weekly schedule needs preferred_day and preferred_time", domain.ErrInvalidSchedule)
		}
		at, err := domain.ParseTimeOfDay(*input.PreferredTime)
		if err != nil {
			return domain.Schedule{}, err
		}
		day, err := domain.ParseWeekday(*input.PreferredDay)
		if err != nil {
			return domain.Schedule{}, err
		}
		return domain.NewWeeklySchedule(day, at)

	case domain.FrequencyCustom:
		if input.IntervalHours == nil {
			return domain.Schedule{}, fmt.Errorf("%w: custom schedule needs interval_hours", domain.ErrInvalidSchedule)
		}
		return domain.NewCustomSchedule(*input.IntervalHours)
	}

	return domain.Schedule{}, fmt.Errorf("%w: frequency %q", domain.ErrInvalidSchedule, input.FrequencyType)
}

type NotificationUsecase struct {
	notifications domain.NotificationRepository
	users         domain.UserRepository
	coins         domain.CoinRepository
	now           func() time.Time
}

func NewNotificationUsecase(notifications domain.NotificationRepository, users domain.UserRepository, coins domain.CoinRepository) *NotificationUsecase {
	return &NotificationUsecase{
		notifications: notifications,
		users:         users,
		coins:         coins,
		now:           time.Now,
	}
}

// Create registers a notification and seeds next_scheduled_at immediately,
// so the overdue scan can pick it up without a separate bootstrap pass.
// One active notification per {user, coin} pair.
func (u *NotificationUsecase) Create(ctx context.Context, userID uuid.UUID, coinID int64, input ScheduleInput) (*domain.Notification, error) {
	schedule, err := BuildSchedule(input)
	if err != nil {
		return nil, err
	}

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

	exists, err := u.notifications.ExistsActive(ctx, userID, coinID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrActiveNotificationExists
	}

	next, err := schedule.NextAfter(u.now())
	if err != nil {
		return nil, err
	}

	notification := &domain.Notification{
		UserID:          userID,
		CoinID:          coinID,
		Schedule:        schedule,
		IsActive:        true,
		NextScheduledAt: &next,
	}
	if err := u.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (u *NotificationUsecase) Get(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	notification, err := u.notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return notification, nil
}

func (u *NotificationUsecase) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u.notifications.ListByUser(ctx, userID)
}

// UpdateSchedule replaces the recurrence policy and recomputes the next
// due time from now under the new policy.
func (u *NotificationUsecase) UpdateSchedule(ctx context.Context, id uuid.UUID, input ScheduleInput) (*domain.Notification, error) {
	schedule, err := BuildSchedule(input)
	if err != nil {
		return nil, err
	}
	notification, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := schedule.NextAfter(u.now())
	if err != nil {
		return nil, err
	}
	notification.Schedule = schedule
	notification.NextScheduledAt = &next

	if err := u.notifications.Update(ctx, notification); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return notification, nil
}

// Deactivate is a soft delete: the row stays for history but leaves the
// overdue scan.
func (u *NotificationUsecase) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := u.notifications.Deactivate(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
