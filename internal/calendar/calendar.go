// Package calendar implements day-granular date arithmetic. Every date is
// pinned to noon UTC so that day differences never drift across DST or
// timezone boundaries.
package calendar

import (
	"math"
	"regexp"
	"time"
)

// Layout is the only accepted textual date format.
const Layout = "2006-01-02"

const day = 24 * time.Hour

var isoPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Clock returns the current instant. Tests inject a fixed clock.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

// Parse accepts only strict YYYY-MM-DD text naming a real calendar day.
// The returned time is at noon UTC.
func Parse(text string) (time.Time, bool) {
	if !isoPattern.MatchString(text) {
		return time.Time{}, false
	}
	t, err := time.Parse(Layout, text)
	if err != nil {
		// time.Parse rejects day-of-month overflow such as 2024-02-30.
		return time.Time{}, false
	}
	return Noon(t), true
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return Noon(t).Format(Layout)
}

// Noon returns the same calendar day as t at 12:00 UTC.
func Noon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// AddDays shifts t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 12, 0, 0, 0, time.UTC)
}

// DayDiff returns to - from in whole days. Negative when to precedes from.
func DayDiff(from, to time.Time) int {
	return int(math.Round(float64(Noon(to).Sub(Noon(from))) / float64(day)))
}

// Today returns the current calendar day according to clock.
func Today(clock Clock) time.Time {
	if clock == nil {
		clock = SystemClock
	}
	now := clock()
	return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC)
}

// TodayISO returns Today formatted as YYYY-MM-DD.
func TodayISO(clock Clock) string {
	return Format(Today(clock))
}

// Valid reports whether text is a strict, real calendar date.
func Valid(text string) bool {
	_, ok := Parse(text)
	return ok
}

// ShiftISO adds n days to an ISO date. Invalid input yields "".
func ShiftISO(text string, n int) string {
	t, ok := Parse(text)
	if !ok {
		return ""
	}
	return Format(AddDays(t, n))
}

// DiffISO returns DayDiff between two ISO dates. ok is false if either
// date is invalid.
func DiffISO(from, to string) (int, bool) {
	a, ok := Parse(from)
	if !ok {
		return 0, false
	}
	b, ok := Parse(to)
	if !ok {
		return 0, false
	}
	return DayDiff(a, b), true
}

// Before reports whether a falls on an earlier day than b. Invalid dates
// never compare as before.
func Before(a, b string) bool {
	d, ok := DiffISO(a, b)
	return ok && d > 0
}
