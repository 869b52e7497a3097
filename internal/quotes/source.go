// Package quotes resolves calendar dates to entries of the 365-day quote
// dataset and validates the dataset's completeness.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
	"github.com/jsamuelsen/daily-reflections/internal/ports"
)

// Source reads the versioned quote dataset through the document store.
// The dataset is edited out-of-band and re-deployed; Source never writes.
type Source struct {
	store  ports.DocumentStore
	key    string
	logger *slog.Logger
}

// Config contains dependencies for the quote source.
type Config struct {
	Store  ports.DocumentStore
	Key    string
	Logger *slog.Logger
}

// NewSource creates a quote source. Panics if Store is nil.
func NewSource(cfg Config) *Source {
	if cfg.Store == nil {
		panic("quotes.Source: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Source{
		store:  cfg.Store,
		key:    cfg.Key,
		logger: logger.With(slog.String("component", "quotes.Source")),
	}
}

// datasetEntry is the wire format of one dataset record.
type datasetEntry struct {
	Day         int    `json:"day"`
	Quote       string `json:"quote"`
	Attribution string `json:"attribution"`
	Theme       string `json:"theme"`
}

// dataset maps lowercase month names to that month's ordered entries.
type dataset map[string][]datasetEntry

// monthName returns the lowercase English month name for a month (1-12).
func monthName(month int) string {
	return strings.ToLower(time.Month(month).String())
}

// load fetches and decodes the full dataset.
func (s *Source) load(ctx context.Context) (dataset, error) {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundError("quote dataset", s.key)
		}

		return nil, err
	}

	var data dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, domain.NewStorageError("get", s.key, fmt.Errorf("decoding dataset: %w", err))
	}

	return data, nil
}

// ForDate returns the dataset entry for the given calendar date.
// Feb-29 resolves to the Feb-28 entry. A missing slot means the deployed
// dataset is defective and is returned as a not-found error; no fallback
// quote is invented.
func (s *Source) ForDate(ctx context.Context, date time.Time) (domain.Quote, error) {
	month, day := domain.ResolveQuoteDay(date)

	data, err := s.load(ctx)
	if err != nil {
		return domain.Quote{}, err
	}

	for _, entry := range data[monthName(month)] {
		if entry.Day == day {
			s.logger.DebugContext(ctx, "resolved quote",
				slog.String("slot", fmt.Sprintf("%s/%d", monthName(month), day)),
				slog.String("attribution", entry.Attribution),
			)

			return domain.Quote{
				Month:       month,
				Day:         day,
				Text:        entry.Quote,
				Attribution: entry.Attribution,
				Theme:       entry.Theme,
			}, nil
		}
	}

	return domain.Quote{}, domain.NewNotFoundError("quote", fmt.Sprintf("%s/%d", monthName(month), day))
}

// Slot identifies one (month, day) position in the dataset.
type Slot struct {
	Month int
	Day   int
}

// String renders the slot as "february/28".
func (s Slot) String() string {
	return fmt.Sprintf("%s/%d", monthName(s.Month), s.Day)
}

// Report is the result of an offline dataset completeness check.
type Report struct {
	// Complete is true when every canonical slot is present exactly once
	// and the total entry count is 365.
	Complete bool

	// TotalQuotes is the number of entries found across all months.
	TotalQuotes int

	// Missing lists canonical slots with no entry.
	Missing []Slot

	// Duplicates lists slots that appear more than once.
	Duplicates []Slot

	// UnknownThemes lists slots whose theme is not in the theme registry.
	// Advisory only; an unknown theme does not fail the check.
	UnknownThemes []Slot
}

// ValidateCompleteness enumerates all 365 canonical (month, day) slots and
// reports missing and duplicated entries. This is a data-quality gate for
// deployment, not part of the daily hot path.
func (s *Source) ValidateCompleteness(ctx context.Context) (*Report, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}

	for month := 1; month <= 12; month++ {
		entries := data[monthName(month)]
		report.TotalQuotes += len(entries)

		seen := make(map[int]bool, len(entries))
		for _, entry := range entries {
			if seen[entry.Day] {
				report.Duplicates = append(report.Duplicates, Slot{Month: month, Day: entry.Day})
			}
			seen[entry.Day] = true

			if !domain.KnownTheme(entry.Theme) {
				report.UnknownThemes = append(report.UnknownThemes, Slot{Month: month, Day: entry.Day})
			}
		}

		for day := 1; day <= domain.DaysInMonth(month); day++ {
			if !seen[day] {
				report.Missing = append(report.Missing, Slot{Month: month, Day: day})
			}
		}
	}

	report.Complete = len(report.Missing) == 0 &&
		len(report.Duplicates) == 0 &&
		report.TotalQuotes == 365

	if report.Complete {
		s.logger.InfoContext(ctx, "dataset validation passed",
			slog.Int("total_quotes", report.TotalQuotes))
	} else {
		s.logger.WarnContext(ctx, "dataset validation failed",
			slog.Int("total_quotes", report.TotalQuotes),
			slog.Int("missing", len(report.Missing)),
			slog.Int("duplicates", len(report.Duplicates)),
		)
	}

	return report, nil
}
