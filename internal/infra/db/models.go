package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type userModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Username  string    `gorm:""`
	CreatedAt time.Time
	UpdatedAt time.Time

	PushToken     *pushTokenModel     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Favorites     []favoriteModel     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Logs          []logModel          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Notifications []notificationModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (userModel) TableName() string { return "users" }

type pushTokenModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token     string    `gorm:"not null"`
	UpdatedAt time.Time
}

func (pushTokenModel) TableName() string { return "user_push_tokens" }

type coinModel struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Name   string `gorm:"not null"`
	Symbol string `gorm:"uniqueIndex;not null"`
	Color  string `gorm:"not null"`

	Price         *coinPriceModel     `gorm:"foreignKey:CoinID;constraint:OnDelete:CASCADE"`
	Favorites     []favoriteModel     `gorm:"foreignKey:CoinID;constraint:OnDelete:CASCADE"`
	Logs          []logModel          `gorm:"foreignKey:CoinID;constraint:OnDelete:CASCADE"`
	Notifications []notificationModel `gorm:"foreignKey:CoinID;constraint:OnDelete:CASCADE"`
}

func (coinModel) TableName() string { return "coins" }

type coinPriceModel struct {
	CoinID     int64            `gorm:"primaryKey"`
	Price      decimal.Decimal  `gorm:"type:numeric;not null"`
	Change     *decimal.Decimal `gorm:"type:numeric"`
	IsPositive *bool
	UpdatedAt  time.Time
}

func (coinPriceModel) TableName() string { return "coin_prices" }

type favoriteModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CoinID    int64     `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (favoriteModel) TableName() string { return "favorites" }

type logModel struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	CoinID        int64     `gorm:"not null"`
	NotifiedAt    time.Time
	Price         decimal.Decimal  `gorm:"type:numeric;not null"`
	ChangePercent *decimal.Decimal `gorm:"type:numeric"`
	Message       string
}

func (logModel) TableName() string { return "logs" }

// Schedule columns are stored flat; frequency decides which of the three
// optional columns are meaningful. Reconstruction goes through the domain
// constructors so malformed rows surface as invalid schedules instead of
// being silently repaired.
type notificationModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;index:idx_notifications_user_coin_active,priority:1;not null"`
	CoinID          int64     `gorm:"index:idx_notifications_user_coin_active,priority:2;not null"`
	FrequencyType   string    `gorm:"size:20;not null"`
	IntervalHours   *int
	PreferredTime   *string `gorm:"size:5"`
	PreferredDay    *int
	IsActive        bool `gorm:"index:idx_notifications_user_coin_active,priority:3;default:true"`
	LastSentAt      *time.Time
	NextScheduledAt *time.Time `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (notificationModel) TableName() string { return "notifications" }
