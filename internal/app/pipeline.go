// Package app contains application services orchestrating domain logic.
// This layer depends on ports (interfaces), never directly on adapters.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
	"github.com/jsamuelsen/daily-reflections/internal/generator"
	"github.com/jsamuelsen/daily-reflections/internal/history"
	"github.com/jsamuelsen/daily-reflections/internal/platform/metrics"
	"github.com/jsamuelsen/daily-reflections/internal/ports"
	"github.com/jsamuelsen/daily-reflections/internal/quotes"
	"github.com/jsamuelsen/daily-reflections/internal/render"
)

// State names one step of a pipeline invocation. Transitions are strictly
// sequential; any failure before delivery starts moves to StateFailed.
// Once delivery starts the run always finishes in StateDone, because the
// history entry is already persisted and per-recipient failures must not
// void the day.
type State string

// Pipeline states in execution order.
const (
	StateInit             State = "INIT"
	StateQuoteLoaded      State = "QUOTE_LOADED"
	StateHistoryLoaded    State = "HISTORY_LOADED"
	StateRecipientsLoaded State = "RECIPIENTS_LOADED"
	StateGenerated        State = "GENERATED"
	StateHistorySaved     State = "HISTORY_SAVED"
	StateRendered         State = "RENDERED"
	StateDelivering       State = "DELIVERING"
	StateDone             State = "DONE"
	StateFailed           State = "FAILED"
)

// RunResult summarizes one pipeline invocation.
type RunResult struct {
	Date        time.Time
	Theme       string
	Attribution string
	State       State

	// SuccessCount and FailureCount partition the recipient list after
	// delivery. FailureCount > 0 with StateDone is a partial delivery.
	SuccessCount int
	FailureCount int

	// ValidationIssues are warn-only findings on the generated reflection.
	ValidationIssues []string

	// PrunedEntries is the number of history entries dropped by retention.
	PrunedEntries int
}

// Pipeline runs the daily reflection job end to end: resolve the quote,
// generate the reflection, persist history, render, and deliver.
type Pipeline struct {
	quotes        *quotes.Source
	history       *history.Store
	generator     *generator.Generator
	renderer      *render.Renderer
	mailer        ports.Mailer
	store         ports.DocumentStore
	recipientsKey string
	sender        string
	retentionDays int
	now           func() time.Time
	logger        *slog.Logger
	metrics       *metrics.Pipeline
}

// PipelineConfig contains dependencies for the pipeline.
type PipelineConfig struct {
	Quotes    *quotes.Source
	History   *history.Store
	Generator *generator.Generator
	Renderer  *render.Renderer
	Mailer    ports.Mailer

	// Store and RecipientsKey locate the recipient list document.
	Store         ports.DocumentStore
	RecipientsKey string

	// Sender is the From address on every outgoing email.
	Sender string

	// RetentionDays bounds the history window kept after each run.
	RetentionDays int

	// Now supplies the current time. Defaults to time.Now; tests pin it.
	Now func() time.Time

	Logger  *slog.Logger
	Metrics *metrics.Pipeline
}

// NewPipeline creates the pipeline. Panics on missing dependencies since
// this indicates a programming error in wiring.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Quotes == nil || cfg.History == nil || cfg.Generator == nil ||
		cfg.Renderer == nil || cfg.Mailer == nil || cfg.Store == nil {
		panic("app.Pipeline: missing dependency")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		quotes:        cfg.Quotes,
		history:       cfg.History,
		generator:     cfg.Generator,
		renderer:      cfg.Renderer,
		mailer:        cfg.Mailer,
		store:         cfg.Store,
		recipientsKey: cfg.RecipientsKey,
		sender:        cfg.Sender,
		retentionDays: cfg.RetentionDays,
		now:           now,
		logger:        logger.With(slog.String("component", "app.Pipeline")),
		metrics:       cfg.Metrics,
	}
}

// Run executes one full pipeline invocation for today's date.
func (p *Pipeline) Run(ctx context.Context) (RunResult, error) {
	return p.RunForDate(ctx, p.now().UTC())
}

// RunForDate executes one full pipeline invocation for the given date.
// The date is truncated to midnight UTC so history entries compare cleanly.
func (p *Pipeline) RunForDate(ctx context.Context, date time.Time) (RunResult, error) {
	started := p.now()
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	result := RunResult{Date: date, State: StateInit}

	logger := p.logger.With(slog.String("date", date.Format(domain.DateLayout)))
	logger.InfoContext(ctx, "pipeline run starting")

	err := p.run(ctx, date, logger, &result)

	p.observeRun(started, err)

	if err != nil {
		result.State = StateFailed
		logger.ErrorContext(ctx, "pipeline run failed",
			slog.String("error", err.Error()))

		return result, err
	}

	logger.InfoContext(ctx, "pipeline run complete",
		slog.Int("delivered", result.SuccessCount),
		slog.Int("failed", result.FailureCount),
		slog.Int("pruned", result.PrunedEntries),
	)

	return result, nil
}

func (p *Pipeline) run(ctx context.Context, date time.Time, logger *slog.Logger, result *RunResult) error {
	// Quote resolution. A missing slot is a defective dataset and fatal.
	quote, err := p.quotes.ForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("loading quote: %w", err)
	}

	theme, err := domain.ThemeForMonth(quote.Month)
	if err != nil {
		return fmt.Errorf("resolving theme: %w", err)
	}

	result.Theme = theme.Name
	result.Attribution = quote.Attribution
	result.State = StateQuoteLoaded

	entries, err := p.history.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	result.State = StateHistoryLoaded

	// A same-date entry means today already ran. Failing here, before the
	// generation call, keeps a double trigger from paying for tokens.
	for _, existing := range entries {
		if existing.SameDate(date) {
			return domain.NewDuplicateDateError(date)
		}
	}

	recipients, err := p.loadRecipients(ctx)
	if err != nil {
		return err
	}

	result.State = StateRecipientsLoaded

	reflection, err := p.generator.Generate(ctx, domain.ReflectionRequest{
		Quote:        quote,
		Theme:        theme,
		PriorEntries: history.EntriesForMonth(entries, date),
	})
	if err != nil {
		return fmt.Errorf("generating reflection: %w", err)
	}

	result.State = StateGenerated
	result.ValidationIssues = reflection.Issues

	if p.metrics != nil && len(reflection.Issues) > 0 {
		p.metrics.ValidationIssuesTotal.Add(float64(len(reflection.Issues)))
	}

	// Persist before delivering. A failed batch must never lose the entry:
	// the reflection is part of the record whether or not anyone got mail.
	entries, err = history.Append(entries, domain.HistoryEntry{
		Date:        date,
		Quote:       quote.Text,
		Attribution: quote.Attribution,
		Theme:       quote.Theme,
		Reflection:  reflection.Text,
	})
	if err != nil {
		return err
	}

	entries, result.PrunedEntries = history.Prune(entries, date, p.retentionDays)
	if p.metrics != nil && result.PrunedEntries > 0 {
		p.metrics.PrunedEntriesTotal.Add(float64(result.PrunedEntries))
	}

	if err := p.history.Save(ctx, entries); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}

	result.State = StateHistorySaved

	rendered, err := p.renderer.Render(render.Input{
		Date:       date,
		Quote:      quote,
		Theme:      theme,
		Reflection: reflection.Text,
	})
	if err != nil {
		return fmt.Errorf("rendering email: %w", err)
	}

	result.State = StateRendered

	p.deliver(ctx, logger, recipients, rendered, result)

	result.State = StateDone

	return nil
}

// deliver sends the rendered email to each recipient in turn. Individual
// failures are logged and counted; they never abort the batch.
func (p *Pipeline) deliver(ctx context.Context, logger *slog.Logger, recipients []string, rendered render.Output, result *RunResult) {
	result.State = StateDelivering

	for _, recipient := range recipients {
		err := p.mailer.Send(ctx, domain.Email{
			From:     p.sender,
			To:       recipient,
			Subject:  rendered.Subject,
			HTMLBody: rendered.HTMLBody,
			TextBody: rendered.TextBody,
		})

		if err != nil {
			result.FailureCount++
			p.observeDelivery(metrics.OutcomeFailed)
			logger.ErrorContext(ctx, "delivery failed",
				slog.String("recipient", recipient),
				slog.String("error", err.Error()),
			)

			continue
		}

		result.SuccessCount++
		p.observeDelivery(metrics.OutcomeSucceeded)
	}
}

// recipientsDocument is the wire format of the recipient list.
type recipientsDocument struct {
	Recipients []string `json:"recipients"`
}

// loadRecipients fetches and cleans the recipient list. An empty list is
// fatal: generating and persisting a reflection nobody receives would
// silently burn the day's slot.
func (p *Pipeline) loadRecipients(ctx context.Context) ([]string, error) {
	raw, err := p.store.Get(ctx, p.recipientsKey)
	if err != nil {
		return nil, fmt.Errorf("loading recipients: %w", err)
	}

	var doc recipientsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, domain.NewStorageError("get", p.recipientsKey,
			fmt.Errorf("decoding recipients: %w", err))
	}

	recipients := make([]string, 0, len(doc.Recipients))
	for _, r := range doc.Recipients {
		r = strings.TrimSpace(r)
		if r != "" {
			recipients = append(recipients, r)
		}
	}

	if len(recipients) == 0 {
		return nil, domain.NewValidationError("recipients", "recipient list is empty")
	}

	return recipients, nil
}

func (p *Pipeline) observeRun(started time.Time, err error) {
	if p.metrics == nil {
		return
	}

	outcome := metrics.OutcomeSucceeded
	if err != nil {
		outcome = metrics.OutcomeFailed
	}

	p.metrics.RunsTotal.WithLabelValues(outcome).Inc()
	p.metrics.RunDuration.Observe(p.now().Sub(started).Seconds())
}

func (p *Pipeline) observeDelivery(outcome string) {
	if p.metrics == nil {
		return
	}

	p.metrics.DeliveriesTotal.WithLabelValues(outcome).Inc()
}
