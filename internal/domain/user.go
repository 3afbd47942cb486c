package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Email     string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PushToken is the user's current Expo delivery target. One row per user,
// replaced in place when the device re-registers.
type PushToken struct {
	UserID    uuid.UUID
	Token     string
	UpdatedAt time.Time
}
