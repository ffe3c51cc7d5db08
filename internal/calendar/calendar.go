// Package calendar builds month grids and day keys for bucketing tasks by date.
//
// Dates are treated as floating calendar days: every function reads the
// year/month/day fields of a time.Time in its own location and never converts
// between zones.
package calendar

import (
	"fmt"
	"time"
)

// KeyLayout is the time layout matching Key's output.
const KeyLayout = "2006-01-02"

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Add returns the month n months after m. Negative n moves backwards.
func (m Month) Add(n int) Month {
	idx := m.Year*12 + int(m.Month) - 1 + n
	year := idx / 12
	mon := idx % 12
	if mon < 0 {
		mon += 12
		year--
	}
	return Month{Year: year, Month: time.Month(mon + 1)}
}

// First returns day 1 of the month at midnight UTC.
func (m Month) First() time.Time {
	return Date(m.Year, m.Month, 1)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	switch m.Month {
	case time.February:
		if IsLeap(m.Year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// FirstWeekday returns the weekday of day 1 (0 = Sunday).
func (m Month) FirstWeekday() int {
	return int(m.First().Weekday())
}

// Contains reports whether t falls in m.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Date returns a floating calendar date (midnight UTC).
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Key returns the zero-padded YYYY-MM-DD key for t's own calendar day.
func Key(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseKey parses a YYYY-MM-DD key into a floating date.
func ParseKey(key string) (time.Time, error) {
	return time.ParseInLocation(KeyLayout, key, time.UTC)
}

// SameDay reports whether a and b share calendar year, month and day.
func SameDay(a, b time.Time) bool {
	return Key(a) == Key(b)
}
