// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"math"
	"time"
)

const (
	HoursInADay  = 24
	HoursInAWeek = 7 * HoursInADay
	// Fixed-duration approximations used as wall-clock denominators for
	// the month and year reporting windows. These are deliberate: the
	// session filter is calendar-relative, but the available-hours
	// denominator always uses the 30/365-day multiple.
	HoursInAMonth = 30 * HoursInADay
	HoursInAYear  = 365 * HoursInADay
)

// Window is a rolling reporting period ending at the current instant.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
)

// Windows lists every valid reporting window.
var Windows = []Window{WindowDay, WindowWeek, WindowMonth, WindowYear}

// Valid reports whether w is a known reporting window.
func (w Window) Valid() bool {
	for _, v := range Windows {
		if v == w {
			return true
		}
	}

	return false
}

// Start returns the earliest instant a session may start at and still be
// counted in the window. The day window begins at the start of the
// current calendar day; week is exactly 7x24h back from now; month and
// year are calendar-relative.
func (w Window) Start(now time.Time) time.Time {
	switch w {
	case WindowDay:
		return RoundToStart(now)
	case WindowWeek:
		return now.Add(-HoursInAWeek * time.Hour)
	case WindowMonth:
		return now.AddDate(0, -1, 0)
	case WindowYear:
		return now.AddDate(-1, 0, 0)
	}

	return now
}

// Allotment returns the wall-clock duration available in the window, used
// as the denominator in all-hours mode. For the day window it is the time
// elapsed since midnight; the remaining windows use fixed multiples
// regardless of actual elapsed calendar time.
func (w Window) Allotment(now time.Time) time.Duration {
	switch w {
	case WindowDay:
		return now.Sub(RoundToStart(now))
	case WindowWeek:
		return HoursInAWeek * time.Hour
	case WindowMonth:
		return HoursInAMonth * time.Hour
	case WindowYear:
		return HoursInAYear * time.Hour
	}

	return 0
}

// Round rounds a time value in seconds, minutes, or hours to the nearest
// integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}
