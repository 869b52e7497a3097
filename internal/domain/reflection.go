package domain

import "time"

// ReflectionRequest carries everything the generator needs to produce one
// day's reflection. It exists only for the duration of a single generation
// call and is never persisted.
type ReflectionRequest struct {
	Quote Quote
	Theme Theme

	// PriorEntries are this month's already-published entries in
	// chronological order, used to steer the generator away from
	// angles it has already taken.
	PriorEntries []HistoryEntry
}

// ReflectionResult is the validated output of one generation call.
type ReflectionResult struct {
	// Text is the generated reflection.
	Text string

	// WordCount is the whitespace-delimited word count of Text.
	WordCount int

	// Valid is false when any validation issue was recorded. Issues are
	// warn-only: an invalid result is still delivered, the issues are
	// surfaced for logging.
	Valid bool

	// Issues lists human-readable validation findings.
	Issues []string
}

// Budget bounds a single generation call. There is no internal retry:
// a once-a-day job retried on the next trigger is cheaper than multiplying
// cost and latency inside the call.
type Budget struct {
	// MaxTokens caps the generated response size.
	MaxTokens int

	// Timeout bounds the whole call including transport.
	Timeout time.Duration
}
