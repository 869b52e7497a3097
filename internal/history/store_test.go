package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-reflections/internal/adapters/storage"
	"github.com/jsamuelsen/daily-reflections/internal/domain"
)

const historyKey = "quote_history.json"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(date time.Time) domain.HistoryEntry {
	return domain.HistoryEntry{
		Date:        date,
		Quote:       "You have power over your mind, not outside events.",
		Attribution: "Marcus Aurelius - Meditations 8.4",
		Theme:       "Clarity and Sound Judgment",
		Reflection:  "A reflection.",
	}
}

func newStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()

	docs := storage.NewMemoryStore()

	return NewStore(Config{Store: docs, Key: historyKey}), docs
}

func TestLoad_AbsentDocumentIsEmptyHistory(t *testing.T) {
	store, _ := newStore(t)

	entries, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoad_MalformedDocumentIsFatal(t *testing.T) {
	store, docs := newStore(t)
	ctx := context.Background()

	require.NoError(t, docs.Put(ctx, historyKey, []byte("{broken")))

	_, err := store.Load(ctx)

	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))
}

func TestLoad_BadDateIsFatal(t *testing.T) {
	store, docs := newStore(t)
	ctx := context.Background()

	doc := `{"quotes":[{"date":"January 3rd","quote":"q","attribution":"a","theme":"t","reflection":"r"}]}`
	require.NoError(t, docs.Put(ctx, historyKey, []byte(doc)))

	_, err := store.Load(ctx)

	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))
}

func TestSaveThenLoad_RoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	original := []domain.HistoryEntry{
		entry(day(2025, time.March, 1)),
		entry(day(2025, time.March, 2)),
	}

	require.NoError(t, store.Save(ctx, original))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSave_OverwritesPreviousDocument(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []domain.HistoryEntry{
		entry(day(2025, time.March, 1)),
		entry(day(2025, time.March, 2)),
	}))
	require.NoError(t, store.Save(ctx, []domain.HistoryEntry{
		entry(day(2025, time.March, 3)),
	}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, day(2025, time.March, 3), loaded[0].Date)
}

func TestAppend_AddsEntry(t *testing.T) {
	entries := []domain.HistoryEntry{entry(day(2025, time.March, 1))}

	out, err := Append(entries, entry(day(2025, time.March, 2)))

	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, entries, 1, "input must not be mutated")
}

func TestAppend_DuplicateDateLeavesCollectionUnchanged(t *testing.T) {
	entries := []domain.HistoryEntry{entry(day(2025, time.March, 1))}

	out, err := Append(entries, entry(day(2025, time.March, 1)))

	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
	assert.Equal(t, entries, out)
}

func TestEntriesForMonth(t *testing.T) {
	entries := []domain.HistoryEntry{
		entry(day(2025, time.March, 5)),
		entry(day(2025, time.March, 1)),
		entry(day(2025, time.February, 28)), // different month
		entry(day(2024, time.March, 2)),     // different year
		entry(day(2025, time.March, 10)),    // on and after ref excluded
		entry(day(2025, time.March, 12)),
	}

	got := EntriesForMonth(entries, day(2025, time.March, 10))

	require.Len(t, got, 2)
	assert.Equal(t, day(2025, time.March, 1), got[0].Date)
	assert.Equal(t, day(2025, time.March, 5), got[1].Date)
}

func TestEntriesForMonth_Empty(t *testing.T) {
	assert.Empty(t, EntriesForMonth(nil, day(2025, time.March, 10)))
}

func TestPrune(t *testing.T) {
	ref := day(2025, time.June, 1)

	tests := []struct {
		name          string
		entries       []domain.HistoryEntry
		retentionDays int
		wantKept      int
		wantRemoved   int
	}{
		{
			name: "older than window removed",
			entries: []domain.HistoryEntry{
				entry(ref.AddDate(0, 0, -401)),
				entry(ref.AddDate(0, 0, -10)),
			},
			retentionDays: 400,
			wantKept:      1,
			wantRemoved:   1,
		},
		{
			name: "entry exactly on cutoff kept",
			entries: []domain.HistoryEntry{
				entry(ref.AddDate(0, 0, -400)),
			},
			retentionDays: 400,
			wantKept:      1,
			wantRemoved:   0,
		},
		{
			name: "one day past cutoff removed",
			entries: []domain.HistoryEntry{
				entry(ref.AddDate(0, 0, -400).AddDate(0, 0, -1)),
			},
			retentionDays: 400,
			wantKept:      0,
			wantRemoved:   1,
		},
		{
			name:          "empty history",
			entries:       nil,
			retentionDays: 400,
			wantKept:      0,
			wantRemoved:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, removed := Prune(tt.entries, ref, tt.retentionDays)

			assert.Len(t, kept, tt.wantKept)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}
