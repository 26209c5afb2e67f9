package dateutil

import (
	"strings"
	"time"
)

// Layouts accepted by ParseDate, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2006-01",
}

// ParseDate parses a calendar date in one of the accepted layouts.
// The result is normalized to midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// ParseDateOr parses s and returns fallback when s is empty or unparsable.
func ParseDateOr(s string, fallback time.Time) time.Time {
	if t, ok := ParseDate(s); ok {
		return t
	}
	return Day(fallback)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns the number of days in a given year
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// BeginningOfYear returns January 1st of year.
func BeginningOfYear(year int) time.Time {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfYear returns December 31st of year.
func EndOfYear(year int) time.Time {
	return time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive counts calendar days from start to end, both included.
// It returns 0 when end is before start.
func DaysInclusive(start, end time.Time) int {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// OverlapDays counts the days of year that fall inside [start, end].
func OverlapDays(start, end time.Time, year int) int {
	from := Day(start)
	if yb := BeginningOfYear(year); from.Before(yb) {
		from = yb
	}
	to := Day(end)
	if ye := EndOfYear(year); to.After(ye) {
		to = ye
	}
	return DaysInclusive(from, to)
}

// AddMonths adds a specified number of months to a date
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// YearsBetween returns the whole calendar years from one year to another,
// never negative.
func YearsBetween(fromYear, toYear int) int {
	if toYear < fromYear {
		return 0
	}
	return toYear - fromYear
}
