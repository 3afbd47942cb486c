package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PushTokenRepository interface {
	Upsert(ctx context.Context, token *PushToken) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*PushToken, error)
}

type CoinRepository interface {
	Create(ctx context.Context, coin *Coin) error
	GetByID(ctx context.Context, id int64) (*Coin, error)
	List(ctx context.Context) ([]Coin, error)
	Delete(ctx context.Context, id int64) error
}

type CoinPriceRepository interface {
	GetByCoinID(ctx context.Context, coinID int64) (*CoinPrice, error)
	List(ctx context.Context) ([]CoinPrice, error)
	// UpsertAll writes every snapshot inside one transaction: either the
	// whole refresh lands or none of it does.
	UpsertAll(ctx context.Context, prices []CoinPrice) error
}

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *Favorite) error
	Delete(ctx context.Context, userID uuid.UUID, coinID int64) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Favorite, error)
	Exists(ctx context.Context, userID uuid.UUID, coinID int64) (bool, error)
}

type LogRepository interface {
	Create(ctx context.Context, entry *Log) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Log, error)
	ListAll(ctx context.Context, limit int) ([]Log, error)
	// Stats aggregates a user's dispatch history; recentSince bounds the
	// "recent" counter.
	Stats(ctx context.Context, userID uuid.UUID, recentSince time.Time) (*LogStats, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Notification, error)
	// ListOverdue returns active notifications with a non-nil
	// next_scheduled_at at or before now, in stable order.
	ListOverdue(ctx context.Context, now time.Time) ([]Notification, error)
	ExistsActive(ctx context.Context, userID uuid.UUID, coinID int64) (bool, error)
	Update(ctx context.Context, notification *Notification) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	// RecordDispatch commits the audit log entry and the schedule advance
	// for one notification as a single transaction.
	RecordDispatch(ctx context.Context, id uuid.UUID, entry *Log, sentAt, nextAt time.Time) error
}
