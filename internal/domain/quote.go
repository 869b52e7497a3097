// Package domain contains core business entities and rules.
package domain

import "time"

// DateLayout is the canonical wire format for calendar dates.
const DateLayout = "2006-01-02"

// Quote represents one entry of the 365-day quote dataset.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// Month is the calendar month the quote is assigned to (1-12).
	Month int

	// Day is the day of month the quote is assigned to (1-31).
	Day int

	// Text is the quote itself.
	Text string

	// Attribution identifies the author and work,
	// e.g. "Marcus Aurelius - Meditations 4.3".
	Attribution string

	// Theme is the monthly theme the quote was curated under.
	Theme string
}

// ResolveQuoteDay maps a calendar date to the dataset's (month, day) slot.
// The dataset holds exactly 365 entries and no Feb-29 slot; leap days fall
// back to Feb-28.
func ResolveQuoteDay(date time.Time) (month, day int) {
	month = int(date.Month())
	day = date.Day()

	if month == 2 && day == 29 {
		day = 28
	}

	return month, day
}

// DaysInMonth returns the number of dataset day-slots for a month (1-12).
// February reports 28 because the dataset carries no leap-day entry.
func DaysInMonth(month int) int {
	switch month {
	case 2:
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}
