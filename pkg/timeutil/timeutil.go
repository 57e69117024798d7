// Package timeutil provides date and clock helpers for the school records core.
// Academic records are date-oriented (birth dates, attendance days, term
// boundaries) while timetables use fractional clock hours, so both views of
// time live here. No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"math"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// DATE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// Today returns the current date truncated to midnight UTC.
func Today() time.Time {
	return DateOf(time.Now().UTC())
}

// DateOf truncates a time to midnight UTC, keeping only the calendar date.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Date creates a UTC date from its components.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two times fall on the same calendar date in UTC.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// Age returns the number of whole years between the date of birth and the
// reference date. The month/day comparison avoids counting a year before the
// birthday anniversary has passed. A zero date of birth yields 0.
func Age(dateOfBirth, at time.Time) int {
	if dateOfBirth.IsZero() {
		return 0
	}

	dob := DateOf(dateOfBirth)
	ref := DateOf(at)

	years := ref.Year() - dob.Year()
	if ref.Month() < dob.Month() || (ref.Month() == dob.Month() && ref.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// FormatDate renders a date as DD/MM/YYYY, the format used in attendance
// display names.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// ══════════════════════════════════════════════════════════════════════════════
// CLOCK HOURS
// Timetable slots store times of day as fractional hours (9.5 == 09:30).
// ══════════════════════════════════════════════════════════════════════════════

// ClockHours is a time of day expressed as fractional hours since midnight.
type ClockHours float64

// IsValidStart reports whether the value is a valid slot start, in [0, 24).
func (c ClockHours) IsValidStart() bool {
	return c >= 0 && c < 24
}

// IsValidEnd reports whether the value is a valid slot end, in [0, 24].
func (c ClockHours) IsValidEnd() bool {
	return c >= 0 && c <= 24
}

// Minutes returns the value as whole minutes since midnight, rounded.
func (c ClockHours) Minutes() int {
	return int(math.Round(float64(c) * 60))
}

// String renders the value as a zero-padded 24h clock string ("09:30").
func (c ClockHours) String() string {
	hours := int(c)
	minutes := int(math.Round((float64(c) - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}
