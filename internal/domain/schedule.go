package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidSchedule    = errors.New("invalid schedule")
	ErrUnknownWeekday     = errors.New("unknown weekday")
	ErrInvalidTimeOfDay   = errors.New("invalid time of day")
	ErrIntervalOutOfRange = errors.New("interval hours out of range")
)

type Frequency string

const (
	FrequencyHourly Frequency = "hourly"
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// Weekday numbering is fixed Monday=0 .. Sunday=6, matching what the mobile
// client stores. Distinct from time.Weekday, which starts at Sunday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ParseWeekday maps a day name to its number, case-insensitively. Unknown
// names are an error, never silently Monday.
func ParseWeekday(name string) (Weekday, error) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range weekdayNames {
		if candidate == lowered {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" in 24-hour notation.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Schedule is a recurrence policy. The zero value is invalid; values built
// through the constructors are always well formed, so NextAfter is total
// over them. Fields not used by the active frequency are ignored.
type Schedule struct {
	frequency     Frequency
	intervalHours int
	at            TimeOfDay
	day           Weekday
}

func NewHourlySchedule() Schedule {
	return Schedule{frequency: FrequencyHourly}
}

func NewDailySchedule(at TimeOfDay) Schedule {
	return Schedule{frequency: FrequencyDaily, at: at}
}

func NewWeeklySchedule(day Weekday, at TimeOfDay) (Schedule, error) {
	if day < Monday || day > Sunday {
		return Schedule{}, fmt.Errorf("%w: day %d", ErrUnknownWeekday, int(day))
	}
	return Schedule{frequency: FrequencyWeekly, day: day, at: at}, nil
}

// NewCustomSchedule accepts an interval in (0, 168] hours. Anything else is
// a construction-time error, not something repaired at dispatch time.
func NewCustomSchedule(intervalHours int) (Schedule, error) {
	if intervalHours <= 0 || intervalHours > 168 {
		return Schedule{}, fmt.Errorf("%w: %d", ErrIntervalOutOfRange, intervalHours)
	}
	return Schedule{frequency: FrequencyCustom, intervalHours: intervalHours}, nil
}

func (s Schedule) Frequency() Frequency { return s.frequency }
func (s Schedule) IntervalHours() int   { return s.intervalHours }
func (s Schedule) At() TimeOfDay        { return s.at }
func (s Schedule) Day() Weekday         { return s.day }

// NextAfter computes the next due instant strictly after now. now is
// normalized to UTC so results do not drift across calls.
func (s Schedule) NextAfter(now time.Time) (time.Time, error) {
	now = now.UTC()

	switch s.frequency {
	case FrequencyHourly:
		return now.Truncate(time.Hour).Add(time.Hour), nil

	case FrequencyCustom:
		if s.intervalHours <= 0 || s.intervalHours > 168 {
			return time.Time{}, fmt.Errorf("%w: interval %d", ErrInvalidSchedule, s.intervalHours)
		}
		return now.Add(time.Duration(s.intervalHours) * time.Hour), nil

	case FrequencyDaily:
		candidate := atTimeOfDay(now, s.at)
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate, nil

	case FrequencyWeekly:
		if s.day < Monday || s.day > Sunday {
			return time.Time{}, fmt.Errorf("%w: day %d", ErrInvalidSchedule, int(s.day))
		}
		daysAhead := (int(s.day) - mondayIndexed(now.Weekday()) + 7) % 7
		candidate := atTimeOfDay(now.AddDate(0, 0, daysAhead), s.at)
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 7)
		}
		return candidate, nil
	}

	return time.Time{}, fmt.Errorf("%w: frequency %q", ErrInvalidSchedule, s.frequency)
}

func atTimeOfDay(base time.Time, at TimeOfDay) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), at.Hour, at.Minute, 0, 0, time.UTC)
}

func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}
