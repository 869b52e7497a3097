package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-reflections/internal/adapters/storage"
	"github.com/jsamuelsen/daily-reflections/internal/domain"
	"github.com/jsamuelsen/daily-reflections/internal/generator"
	"github.com/jsamuelsen/daily-reflections/internal/history"
	"github.com/jsamuelsen/daily-reflections/internal/ports"
	"github.com/jsamuelsen/daily-reflections/internal/quotes"
	"github.com/jsamuelsen/daily-reflections/internal/render"
)

const (
	quotesKey     = "config/quotes_365_days.json"
	historyKey    = "quote_history.json"
	recipientsKey = "recipients.json"
)

var runDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

// fakeTextGenerator satisfies ports.TextGenerator with a canned response.
type fakeTextGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeTextGenerator) Generate(_ context.Context, _ string, _ domain.Budget) (string, error) {
	f.calls++

	return f.response, f.err
}

// fakeMailer records sends and fails for recipients listed in failFor.
type fakeMailer struct {
	sent    []domain.Email
	failFor map[string]bool
}

func (f *fakeMailer) Send(_ context.Context, email domain.Email) error {
	if f.failFor[email.To] {
		return domain.NewDeliveryError(email.To, errors.New("smtp: connection refused"))
	}

	f.sent = append(f.sent, email)

	return nil
}

// failingStore wraps a DocumentStore and fails puts on one key.
type failingStore struct {
	ports.DocumentStore
	failPutKey string
}

func (f *failingStore) Put(ctx context.Context, key string, value []byte) error {
	if key == f.failPutKey {
		return domain.NewStorageError("put", key, errors.New("disk full"))
	}

	return f.DocumentStore.Put(ctx, key, value)
}

// fixture wires a full pipeline over an in-memory store.
type fixture struct {
	store    *storage.MemoryStore
	docs     ports.DocumentStore
	textgen  *fakeTextGenerator
	mailer   *fakeMailer
	pipeline *Pipeline
}

type fixtureOptions struct {
	recipients    []string
	noRecipients  bool
	failHistory   bool
	dropQuoteSlot bool
	minWords      int
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()

	ctx := context.Background()
	store := storage.NewMemoryStore()

	if !opts.dropQuoteSlot {
		dataset := map[string][]map[string]any{
			"march": {{
				"day":         10,
				"quote":       "You have power over your mind, not outside events.",
				"attribution": "Marcus Aurelius - Meditations 8.4",
				"theme":       "Clarity and Sound Judgment",
			}},
		}
		raw, err := json.Marshal(dataset)
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, quotesKey, raw))
	}

	if !opts.noRecipients {
		recipients := opts.recipients
		if recipients == nil {
			recipients = []string{"a@example.com", "b@example.com"}
		}

		raw, err := json.Marshal(map[string][]string{"recipients": recipients})
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, recipientsKey, raw))
	}

	var docs ports.DocumentStore = store
	if opts.failHistory {
		docs = &failingStore{DocumentStore: store, failPutKey: historyKey}
	}

	minWords := opts.minWords
	if minWords == 0 {
		minWords = 1
	}

	textgen := &fakeTextGenerator{
		response: `{"reflection": "First paragraph.\n\nSecond paragraph."}`,
	}
	mailer := &fakeMailer{failFor: map[string]bool{}}

	pipeline := NewPipeline(PipelineConfig{
		Quotes:  quotes.NewSource(quotes.Config{Store: docs, Key: quotesKey}),
		History: history.NewStore(history.Config{Store: docs, Key: historyKey}),
		Generator: generator.New(generator.Config{
			TextGenerator: textgen,
			Budget:        domain.Budget{MaxTokens: 2000, Timeout: time.Second},
			MinWords:      minWords,
			MaxWords:      1000,
		}),
		Renderer:      render.NewRenderer(),
		Mailer:        mailer,
		Store:         docs,
		RecipientsKey: recipientsKey,
		Sender:        "reflections@example.com",
		RetentionDays: 400,
		Now:           func() time.Time { return runDate },
	})

	return &fixture{
		store:    store,
		docs:     docs,
		textgen:  textgen,
		mailer:   mailer,
		pipeline: pipeline,
	}
}

func (f *fixture) loadHistory(t *testing.T) []domain.HistoryEntry {
	t.Helper()

	entries, err := history.NewStore(history.Config{Store: f.store, Key: historyKey}).
		Load(context.Background())
	require.NoError(t, err)

	return entries
}

func (f *fixture) seedHistory(t *testing.T, entries []domain.HistoryEntry) {
	t.Helper()

	err := history.NewStore(history.Config{Store: f.store, Key: historyKey}).
		Save(context.Background(), entries)
	require.NoError(t, err)
}

func TestRun_HappyPath(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	result, err := f.pipeline.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, runDate, result.Date)
	assert.Equal(t, "Clarity and Sound Judgment", result.Theme)
	assert.Equal(t, "Marcus Aurelius - Meditations 8.4", result.Attribution)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Zero(t, result.FailureCount)
	assert.Empty(t, result.ValidationIssues)

	// Both recipients got the same content from the configured sender.
	require.Len(t, f.mailer.sent, 2)
	assert.Equal(t, "reflections@example.com", f.mailer.sent[0].From)
	assert.Equal(t, "Daily Stoic Reflection: Clarity and Sound Judgment", f.mailer.sent[0].Subject)
	assert.Equal(t, f.mailer.sent[0].HTMLBody, f.mailer.sent[1].HTMLBody)

	// History gained today's entry.
	entries := f.loadHistory(t)
	require.Len(t, entries, 1)
	assert.Equal(t, runDate, entries[0].Date)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", entries[0].Reflection)
}

func TestRun_PartialDeliveryStillCompletes(t *testing.T) {
	f := newFixture(t, fixtureOptions{
		recipients: []string{"a@example.com", "b@example.com", "c@example.com"},
	})
	f.mailer.failFor["b@example.com"] = true

	result, err := f.pipeline.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
}

func TestRun_AllDeliveriesFailStillCompletes(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.mailer.failFor["a@example.com"] = true
	f.mailer.failFor["b@example.com"] = true

	result, err := f.pipeline.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.Zero(t, result.SuccessCount)
	assert.Equal(t, 2, result.FailureCount)

	// The day's entry is persisted even though nobody got mail.
	assert.Len(t, f.loadHistory(t), 1)
}

func TestRun_DuplicateDateFailsBeforeGeneration(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.seedHistory(t, []domain.HistoryEntry{{
		Date:        runDate,
		Quote:       "q",
		Attribution: "a",
		Theme:       "t",
		Reflection:  "r",
	}})

	result, err := f.pipeline.Run(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
	assert.Equal(t, StateFailed, result.State)
	assert.Zero(t, f.textgen.calls, "duplicate dates must not spend tokens")
	assert.Empty(t, f.mailer.sent)
}

func TestRun_EmptyRecipientListIsFatal(t *testing.T) {
	f := newFixture(t, fixtureOptions{recipients: []string{"  ", ""}})

	result, err := f.pipeline.Run(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, StateFailed, result.State)
	assert.Zero(t, f.textgen.calls)
}

func TestRun_MissingRecipientsDocumentIsFatal(t *testing.T) {
	f := newFixture(t, fixtureOptions{noRecipients: true})

	result, err := f.pipeline.Run(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, StateFailed, result.State)
}

func TestRun_RecipientsAreTrimmed(t *testing.T) {
	f := newFixture(t, fixtureOptions{recipients: []string{" a@example.com ", "", "b@example.com"}})

	result, err := f.pipeline.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, "a@example.com", f.mailer.sent[0].To)
}

func TestRun_GenerationFailureLeavesHistoryUntouched(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.textgen.err = domain.NewGenerationError("call", errors.New("deadline exceeded"))

	result, err := f.pipeline.Run(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsGeneration(err))
	assert.Equal(t, StateFailed, result.State)
	assert.Empty(t, f.loadHistory(t))
	assert.Empty(t, f.mailer.sent)
}

func TestRun_HistorySaveFailureBlocksDelivery(t *testing.T) {
	f := newFixture(t, fixtureOptions{failHistory: true})

	result, err := f.pipeline.Run(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))
	assert.Equal(t, StateFailed, result.State)
	assert.Empty(t, f.mailer.sent, "nothing may be delivered without a saved entry")
}

func TestRun_MissingQuoteSlotIsFatal(t *testing.T) {
	f := newFixture(t, fixtureOptions{dropQuoteSlot: true})

	result, err := f.pipeline.Run(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, StateFailed, result.State)
}

func TestRun_ValidationIssuesAreWarnOnly(t *testing.T) {
	f := newFixture(t, fixtureOptions{minWords: 100})

	result, err := f.pipeline.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.NotEmpty(t, result.ValidationIssues)
	assert.Equal(t, 2, result.SuccessCount, "short reflections still deliver")
}

func TestRun_PrunesEntriesPastRetention(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.seedHistory(t, []domain.HistoryEntry{
		{Date: runDate.AddDate(0, 0, -401), Quote: "q", Attribution: "a", Theme: "t", Reflection: "r"},
		{Date: runDate.AddDate(0, 0, -400), Quote: "q", Attribution: "a", Theme: "t", Reflection: "r"},
	})

	result, err := f.pipeline.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.PrunedEntries)

	entries := f.loadHistory(t)
	require.Len(t, entries, 2)
	assert.Equal(t, runDate.AddDate(0, 0, -400), entries[0].Date)
	assert.Equal(t, runDate, entries[1].Date)
}

func TestRunForDate_TruncatesToMidnightUTC(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	result, err := f.pipeline.RunForDate(context.Background(),
		time.Date(2025, 3, 10, 14, 30, 12, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, runDate, result.Date)

	entries := f.loadHistory(t)
	require.Len(t, entries, 1)
	assert.Equal(t, runDate, entries[0].Date)
}
