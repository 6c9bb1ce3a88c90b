// Package biztime provides calendar-date utilities for billing calculations.
// All storage and transport use UTC. Subscription periods have day
// granularity: comparisons happen on calendar dates, never on clock time.
package biztime

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Today returns the current calendar date (UTC midnight).
func Today() time.Time {
	return DateOf(NowUTC())
}

// DateOf truncates a timestamp to its UTC calendar date (midnight).
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays returns the calendar date n days after t.
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// FromUnix converts a processor unix timestamp to its UTC calendar date.
func FromUnix(sec int64) time.Time {
	return DateOf(time.Unix(sec, 0))
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a time as a YYYY-MM-DD string.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// SameOrBefore reports whether a is on the same calendar date as b or earlier.
// Date comparisons in the billing core are inclusive on the boundary day.
func SameOrBefore(a, b time.Time) bool {
	return !DateOf(a).After(DateOf(b))
}
