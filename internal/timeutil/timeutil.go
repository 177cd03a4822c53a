// Package timeutil holds the calendar-day and clock-time primitives the
// scheduling engine is built on. Appointment dates are provider-local
// YYYY-MM-DD strings and times are HH:MM strings; nothing in here goes
// through UTC, so a date picked at 23:50 local time keys to the day the
// user saw on screen.
package timeutil

import (
	"fmt"
	"regexp"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// DateKey returns the YYYY-MM-DD key for t using its own local calendar
// fields. Never normalize through UTC here: near midnight that shifts the
// key to the wrong day.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

func SameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

// ParseDate validates a YYYY-MM-DD key and returns the midnight of that day
// in the given location.
func ParseDate(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", key, err)
	}
	// time.Parse accepts e.g. "2026-1-2"; the stored form is always padded.
	if DateKey(t) != key {
		return time.Time{}, fmt.Errorf("invalid date %q: not in YYYY-MM-DD form", key)
	}
	return t, nil
}

// ValidClock reports whether s is a well-formed 24h HH:MM string.
func ValidClock(s string) bool {
	return clockRe.MatchString(s)
}

// ClockMinutes converts HH:MM to minutes since midnight. The caller must
// have validated s first.
func ClockMinutes(s string) int {
	var h, m int
	_, _ = fmt.Sscanf(s, "%d:%d", &h, &m)
	return h*60 + m
}

// HourMark truncates HH:MM to its HH:00 slot boundary.
func HourMark(s string) string {
	if len(s) < 2 {
		return s
	}
	return s[:2] + ":00"
}

// Weekday returns the weekday of a date key, or an error for malformed keys.
func Weekday(key string) (time.Weekday, error) {
	t, err := ParseDate(key, time.UTC)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}
