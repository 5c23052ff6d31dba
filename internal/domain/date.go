package domain

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the canonical text form of a calendar date.
const DateLayout = "2006-01-02"

// Day normalizes t to midnight UTC of its calendar date. All dates stored on
// projects and tasks are normalized this way so day arithmetic stays exact.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a normalized calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return Day(t), nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a date by n whole days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// DaysBetween returns the whole number of days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(math.Round(Day(b).Sub(Day(a)).Hours() / 24))
}

// MaxDate returns the later of a and b.
func MaxDate(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
