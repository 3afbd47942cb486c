package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a user's standing request to be told about a coin's price
// on a recurring schedule. The scheduler only ever touches LastSentAt,
// NextScheduledAt and UpdatedAt; deactivation is a soft delete via IsActive.
type Notification struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	CoinID          int64
	Schedule        Schedule
	IsActive        bool
	LastSentAt      *time.Time
	NextScheduledAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Overdue reports whether the notification should be dispatched at now.
// A nil NextScheduledAt is never overdue; it has to be scheduled first.
func (n *Notification) Overdue(now time.Time) bool {
	if !n.IsActive || n.NextScheduledAt == nil {
		return false
	}
	return !n.NextScheduledAt.After(now)
}
