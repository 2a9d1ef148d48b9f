// Package dateutil provides calendar date parsing and grid enumeration utilities.
//
// Dates carry no time-of-day component: every value produced here is midnight
// local time, and the storage boundary format is always YYYY-MM-DD.
package dateutil

import (
	"errors"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
)

// DateFormat is the canonical date layout used at every storage boundary.
const DateFormat = "2006-01-02"

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.ParseInLocation(DateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay returns true if a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// WeekStart returns the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the preceding Monday's week
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// WeekDays returns the seven days of the week starting at the Monday of the
// week containing t.
func WeekDays(t time.Time) [7]time.Time {
	var days [7]time.Time
	monday := WeekStart(t)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// MonthStart returns the first day of the month containing t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthEnd returns the last day of the month containing t.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// AddMonths shifts t by n months, clamping the day of month so that
// navigating from e.g. January 31st lands on the last day of February
// instead of spilling into March.
func AddMonths(t time.Time, n int) time.Time {
	first := MonthStart(t).AddDate(0, n, 0)
	day := t.Day()
	if last := MonthEnd(first).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// MonthWeeks enumerates the calendar grid rows for a month.
//
// The grid starts on the Sunday on or before the first of the month and is
// emitted as rows of seven consecutive days. Rows stop once the month is
// covered: a row that would consist entirely of next-month days is not
// emitted, so a month spans four to six rows. Year and month views share
// this enumeration.
func MonthWeeks(year int, month time.Month) [][7]time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)

	// Walk back to the preceding Sunday (or stay, if the 1st is a Sunday).
	cursor := first.AddDate(0, 0, -int(first.Weekday()))

	var weeks [][7]time.Time
	for !cursor.After(last) {
		var row [7]time.Time
		for i := range row {
			row[i] = cursor
			cursor = cursor.AddDate(0, 0, 1)
		}
		weeks = append(weeks, row)
	}
	return weeks
}

// InMonth returns true if day falls within the given year and month.
// Grid rows from MonthWeeks include leading and trailing out-of-month days.
func InMonth(day time.Time, year int, month time.Month) bool {
	return day.Year() == year && day.Month() == month
}
