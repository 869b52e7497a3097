package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-reflections/internal/adapters/storage"
	"github.com/jsamuelsen/daily-reflections/internal/domain"
)

const datasetKey = "config/quotes_365_days.json"

// buildDataset produces a complete 365-entry dataset, optionally mutated.
func buildDataset(t *testing.T, mutate func(dataset)) []byte {
	t.Helper()

	data := make(dataset)
	for month := 1; month <= 12; month++ {
		theme, err := domain.ThemeForMonth(month)
		require.NoError(t, err)

		name := strings.ToLower(time.Month(month).String())
		for day := 1; day <= domain.DaysInMonth(month); day++ {
			data[name] = append(data[name], datasetEntry{
				Day:         day,
				Quote:       fmt.Sprintf("Quote for %s %d", name, day),
				Attribution: fmt.Sprintf("Author - Work %d.%d", month, day),
				Theme:       theme.Name,
			})
		}
	}

	if mutate != nil {
		mutate(data)
	}

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	return raw
}

func newSource(t *testing.T, raw []byte) *Source {
	t.Helper()

	store := storage.NewMemoryStore()
	if raw != nil {
		require.NoError(t, store.Put(context.Background(), datasetKey, raw))
	}

	return NewSource(Config{Store: store, Key: datasetKey})
}

func TestForDate_EveryValidDate(t *testing.T) {
	src := newSource(t, buildDataset(t, nil))
	ctx := context.Background()

	// 2025 is not a leap year: every calendar day maps to its own slot.
	for date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC); date.Year() == 2025; date = date.AddDate(0, 0, 1) {
		quote, err := src.ForDate(ctx, date)

		require.NoError(t, err, "date %s", date.Format(domain.DateLayout))
		assert.Equal(t, int(date.Month()), quote.Month)
		assert.Equal(t, date.Day(), quote.Day)
		assert.NotEmpty(t, quote.Text)
	}
}

func TestForDate_LeapDayFallsBackToFeb28(t *testing.T) {
	src := newSource(t, buildDataset(t, nil))
	ctx := context.Background()

	leap, err := src.ForDate(ctx, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	feb28, err := src.ForDate(ctx, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, feb28, leap)
	assert.Equal(t, 28, leap.Day)
}

func TestForDate_MissingSlotIsFatal(t *testing.T) {
	raw := buildDataset(t, func(d dataset) {
		// Drop July 4.
		entries := d["july"]
		d["july"] = append(entries[:3], entries[4:]...)
	})
	src := newSource(t, raw)

	_, err := src.ForDate(context.Background(), time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Contains(t, err.Error(), "july/4")
}

func TestForDate_DatasetAbsent(t *testing.T) {
	src := newSource(t, nil)

	_, err := src.ForDate(context.Background(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestForDate_MalformedDataset(t *testing.T) {
	src := newSource(t, []byte("not json"))

	_, err := src.ForDate(context.Background(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))
}

func TestValidateCompleteness_WellFormed(t *testing.T) {
	src := newSource(t, buildDataset(t, nil))

	report, err := src.ValidateCompleteness(context.Background())

	require.NoError(t, err)
	assert.True(t, report.Complete)
	assert.Equal(t, 365, report.TotalQuotes)
	assert.Empty(t, report.Missing)
	assert.Empty(t, report.Duplicates)
	assert.Empty(t, report.UnknownThemes)
}

func TestValidateCompleteness_ReportsDefects(t *testing.T) {
	raw := buildDataset(t, func(d dataset) {
		// Remove march 10 and duplicate november 5.
		march := d["march"]
		d["march"] = append(march[:9], march[10:]...)

		d["november"] = append(d["november"], datasetEntry{
			Day:         5,
			Quote:       "Duplicate",
			Attribution: "Author - Work",
			Theme:       "Gratitude and Contentment",
		})
	})
	src := newSource(t, raw)

	report, err := src.ValidateCompleteness(context.Background())

	require.NoError(t, err)
	assert.False(t, report.Complete)
	assert.Contains(t, report.Missing, Slot{Month: 3, Day: 10})
	assert.Contains(t, report.Duplicates, Slot{Month: 11, Day: 5})
}

func TestValidateCompleteness_FlagsUnknownThemes(t *testing.T) {
	raw := buildDataset(t, func(d dataset) {
		d["june"][0].Theme = "Hustle and Grind"
	})
	src := newSource(t, raw)

	report, err := src.ValidateCompleteness(context.Background())

	require.NoError(t, err)
	// Unknown themes are advisory and do not fail the check.
	assert.True(t, report.Complete)
	assert.Contains(t, report.UnknownThemes, Slot{Month: 6, Day: 1})
}

func TestSlot_String(t *testing.T) {
	assert.Equal(t, "february/28", Slot{Month: 2, Day: 28}.String())
}
