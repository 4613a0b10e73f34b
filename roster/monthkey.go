package roster

import "time"

// =============================================================================
// MONTH KEY - Total order over (year, month) pairs
// =============================================================================

// MonthKey converts a (year, month) pair into a comparable integer key,
// defined as year*12 + month. Adjacent months compare without special-casing
// year rollover. Caller guarantees 1 <= month <= 12.
func MonthKey(year, month int) int { return year*12 + month }

// MonthKeyOf returns the month key of a calendar date.
func MonthKeyOf(t time.Time) int { return MonthKey(t.Year(), int(t.Month())) }

// ValidMonth reports whether month is a calendar month number.
func ValidMonth(month int) bool { return month >= 1 && month <= 12 }

// StartOfMonth returns the first calendar day of (year, month) in UTC.
// This is the date written by soft deletes ("no longer counts from this
// month") and by add-member joins ("counts from this month").
func StartOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// MonthName returns the English month name for a 1-based month number.
func MonthName(month int) string {
	if !ValidMonth(month) {
		return ""
	}
	return time.Month(month).String()
}
