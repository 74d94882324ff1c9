// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"github.com/iwvelando/loan-amortization/pkg/constants"
)

const (
	// DateLayout is the format expected in config files and is also the output
	// date format.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateToDay drops the clock portion of t, keeping its calendar date.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths offsets t by the given number of months. When the day of month
// does not exist in the target month it is clamped to the last day, so
// Jan 31 + 1 month is Feb 28 (or 29).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := DaysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthsBetween returns the whole number of months from start to end.
func MonthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*constants.MonthsPerYear + int(end.Month()) - int(start.Month())
}
