package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWeekly(t *testing.T, day Weekday, at TimeOfDay) Schedule {
	t.Helper()
	schedule, err := NewWeeklySchedule(day, at)
	require.NoError(t, err)
	return schedule
}

func mustCustom(t *testing.T, hours int) Schedule {
	t.Helper()
	schedule, err := NewCustomSchedule(hours)
	require.NoError(t, err)
	return schedule
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    Weekday
		wantErr bool
	}{
		{input: "monday", want: Monday},
		{input: "FRIDAY", want: Friday},
		{input: " Sunday ", want: Sunday},
		{input: "Wednesday", want: Wednesday},
		{input: "humpday", wantErr: true},
		{input: "", wantErr: true},
		{input: "mon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownWeekday)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	at, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 30}, at)

	at, err = ParseTimeOfDay("23:59")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 23, Minute: 59}, at)

	for _, bad := range []string{"24:00", "9:75", "morning", ""} {
		_, err := ParseTimeOfDay(bad)
		assert.ErrorIs(t, err, ErrInvalidTimeOfDay, "input %q", bad)
	}
}

func TestNewCustomScheduleBounds(t *testing.T) {
	for _, hours := range []int{1, 24, 168} {
		_, err := NewCustomSchedule(hours)
		assert.NoError(t, err, "hours=%d", hours)
	}
	for _, hours := range []int{0, -3, 169} {
		_, err := NewCustomSchedule(hours)
		assert.ErrorIs(t, err, ErrIntervalOutOfRange, "hours=%d", hours)
	}
}

func TestNextAfterHourly(t *testing.T) {
	schedule := NewHourlySchedule()

	// Mid-hour rounds up to the next top of hour.
	now := time.Date(2024, 1, 1, 10, 20, 0, 0, time.UTC)
	next, err := schedule.NextAfter(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), next)

	// Exactly on the hour still moves strictly forward.
	now = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	next, err = schedule.NextAfter(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), next)
}

func TestNextAfterCustom(t *testing.T) {
	now := time.Date(2024, 6, 15, 13, 37, 12, 0, time.UTC)

	next, err := mustCustom(t, 1).NextAfter(now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), next)

	next, err = mustCustom(t, 168).NextAfter(now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(168*time.Hour), next)
}

func TestNextAfterDaily(t *testing.T) {
	at := TimeOfDay{Hour: 9, Minute: 0}
	schedule := NewDailySchedule(at)

	// Preferred time still ahead today.
	now := time.Date(2024, 1, 1, 8, 59, 59, 0, time.UTC)
	next, err := schedule.NextAfter(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), next)

	// Preferred time already passed: tomorrow.
	now = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	next, err = schedule.NextAfter(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), next)

	now = time.Date(2024, 1, 1, 17, 30, 0, 0, time.UTC)
	next, err = schedule.NextAfter(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), next)
}

func TestNextAfterDailyAlwaysWithinADay(t *testing.T) {
	schedule := NewDailySchedule(TimeOfDay{Hour: 14, Minute: 45})
	reference := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	for hour := 0; hour < 24; hour++ {
		now := reference.Add(time.Duration(hour) * time.Hour)
		next, err := schedule.NextAfter(now)
		require.NoError(t, err)
		assert.True(t, next.After(now), "now=%v next=%v", now, next)
		assert.LessOrEqual(t, next.Sub(now), 24*time.Hour)
		assert.Equal(t, 14, next.Hour())
		assert.Equal(t, 45, next.Minute())
	}
}

func TestNextAfterWeekly(t *testing.T) {
	at := TimeOfDay{Hour: 9, Minute: 0}

	// 2024-01-01 is a Monday; next Friday 09:00 is January 5.
	schedule := mustWeekly(t, Friday, at)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	next, err := schedule.NextAfter(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), next)

	// Same day, time still ahead: today's occurrence is valid.
	schedule = mustWeekly(t, Monday, at)
	now = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	next, err = schedule.NextAfter(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), next)

	// Same day, time already passed: a full week ahead.
	now = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	next, err = schedule.NextAfter(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), next)
}

func TestNextAfterWeeklyLandsOnRequestedDay(t *testing.T) {
	at := TimeOfDay{Hour: 6, Minute: 15}
	start := time.Date(2024, 2, 1, 11, 23, 0, 0, time.UTC)
	for day := Monday; day <= Sunday; day++ {
		schedule := mustWeekly(t, day, at)
		for offset := 0; offset < 7; offset++ {
			now := start.AddDate(0, 0, offset)
			next, err := schedule.NextAfter(now)
			require.NoError(t, err)
			assert.True(t, next.After(now))
			assert.LessOrEqual(t, next.Sub(now), 7*24*time.Hour)
			assert.Equal(t, int(day), (int(next.Weekday())+6)%7, "day=%s now=%v next=%v", day, now, next)
		}
	}
}

func TestNextAfterRejectsZeroSchedule(t *testing.T) {
	var zero Schedule
	_, err := zero.NextAfter(time.Now())
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestNextAfterNormalizesToUTC(t *testing.T) {
	cet := time.FixedZone("CET", 3600)

	schedule := NewDailySchedule(TimeOfDay{Hour: 9, Minute: 0})
	local := time.Date(2024, 1, 1, 8, 30, 0, 0, cet) // 07:30 UTC
	next, err := schedule.NextAfter(local)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), next)
}

func TestNotificationOverdue(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 20, 0, 0, time.UTC)
	past := time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC)
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		n    Notification
		want bool
	}{
		{name: "active and past due", n: Notification{IsActive: true, NextScheduledAt: &past}, want: true},
		{name: "due exactly now", n: Notification{IsActive: true, NextScheduledAt: &now}, want: true},
		{name: "not yet due", n: Notification{IsActive: true, NextScheduledAt: &future}, want: false},
		{name: "inactive", n: Notification{IsActive: false, NextScheduledAt: &past}, want: false},
		{name: "never scheduled", n: Notification{IsActive: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.n.Overdue(now))
		})
	}
}
