// Package history persists the reflection history document and implements
// the pure collection operations over it: append, monthly lookback, and
// retention pruning.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
	"github.com/jsamuelsen/daily-reflections/internal/ports"
)

// Store reads and writes the single history document. Saves replace the
// whole document; there is no incremental update path.
type Store struct {
	store  ports.DocumentStore
	key    string
	logger *slog.Logger
}

// Config contains dependencies for the history store.
type Config struct {
	Store  ports.DocumentStore
	Key    string
	Logger *slog.Logger
}

// NewStore creates a history store. Panics if Store is nil.
func NewStore(cfg Config) *Store {
	if cfg.Store == nil {
		panic("history.Store: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		store:  cfg.Store,
		key:    cfg.Key,
		logger: logger.With(slog.String("component", "history.Store")),
	}
}

// entryRecord is the wire format of one history entry.
type entryRecord struct {
	Date        string `json:"date"`
	Quote       string `json:"quote"`
	Attribution string `json:"attribution"`
	Theme       string `json:"theme"`
	Reflection  string `json:"reflection"`
}

// document is the wire format of the history document.
type document struct {
	Quotes []entryRecord `json:"quotes"`
}

// Load fetches and decodes the history. An absent document is an empty
// history, not an error; a present but undecodable document is fatal.
func (s *Store) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.InfoContext(ctx, "no history document, starting empty",
				slog.String("key", s.key))

			return nil, nil
		}

		return nil, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, domain.NewStorageError("get", s.key, fmt.Errorf("decoding history: %w", err))
	}

	entries := make([]domain.HistoryEntry, 0, len(doc.Quotes))
	for i, rec := range doc.Quotes {
		date, err := time.Parse(domain.DateLayout, rec.Date)
		if err != nil {
			return nil, domain.NewStorageError("get", s.key,
				fmt.Errorf("entry %d: bad date %q: %w", i, rec.Date, err))
		}

		entries = append(entries, domain.HistoryEntry{
			Date:        date,
			Quote:       rec.Quote,
			Attribution: rec.Attribution,
			Theme:       rec.Theme,
			Reflection:  rec.Reflection,
		})
	}

	return entries, nil
}

// Save encodes and overwrites the history document.
func (s *Store) Save(ctx context.Context, entries []domain.HistoryEntry) error {
	doc := document{Quotes: make([]entryRecord, 0, len(entries))}
	for _, entry := range entries {
		doc.Quotes = append(doc.Quotes, entryRecord{
			Date:        entry.Date.Format(domain.DateLayout),
			Quote:       entry.Quote,
			Attribution: entry.Attribution,
			Theme:       entry.Theme,
			Reflection:  entry.Reflection,
		})
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return domain.NewStorageError("put", s.key, fmt.Errorf("encoding history: %w", err))
	}

	if err := s.store.Put(ctx, s.key, raw); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "history saved",
		slog.String("key", s.key),
		slog.Int("entries", len(entries)))

	return nil
}

// Append returns a new slice with the entry added. If an entry with the
// same calendar date already exists the collection is returned unchanged
// alongside a duplicate-date error.
func Append(entries []domain.HistoryEntry, entry domain.HistoryEntry) ([]domain.HistoryEntry, error) {
	for _, existing := range entries {
		if existing.SameDate(entry.Date) {
			return entries, domain.NewDuplicateDateError(entry.Date)
		}
	}

	out := make([]domain.HistoryEntry, 0, len(entries)+1)
	out = append(out, entries...)
	out = append(out, entry)

	return out, nil
}

// EntriesForMonth returns entries from the same year and month as ref,
// strictly before ref's date, in chronological order.
func EntriesForMonth(entries []domain.HistoryEntry, ref time.Time) []domain.HistoryEntry {
	var out []domain.HistoryEntry

	for _, entry := range entries {
		if entry.Date.Year() == ref.Year() &&
			entry.Date.Month() == ref.Month() &&
			entry.Date.Before(ref) {
			out = append(out, entry)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	return out
}

// Prune drops entries older than the retention window ending at ref.
// An entry exactly on the cutoff is kept. Returns the surviving entries
// and the number removed.
func Prune(entries []domain.HistoryEntry, ref time.Time, retentionDays int) ([]domain.HistoryEntry, int) {
	cutoff := ref.AddDate(0, 0, -retentionDays)

	kept := make([]domain.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Date.Before(cutoff) {
			kept = append(kept, entry)
		}
	}

	return kept, len(entries) - len(kept)
}
