package domain

import "time"

// HistoryEntry is one persisted record tying a calendar date to the quote,
// attribution, theme, and reflection produced that day. Entries are created
// once and never updated in place; the prune operation is the only way an
// entry leaves the collection.
type HistoryEntry struct {
	// Date is the calendar date the entry was generated for.
	// At most one entry exists per date.
	Date time.Time

	Quote       string
	Attribution string
	Theme       string
	Reflection  string
}

// SameDate reports whether the entry belongs to the given calendar date,
// ignoring the time-of-day and location components.
func (e HistoryEntry) SameDate(date time.Time) bool {
	ey, em, ed := e.Date.Date()
	y, m, d := date.Date()

	return ey == y && em == m && ed == d
}
