package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/daily-reflections/internal/adapters/anthropic"
	"github.com/jsamuelsen/daily-reflections/internal/adapters/smtp"
	"github.com/jsamuelsen/daily-reflections/internal/adapters/storage"
	"github.com/jsamuelsen/daily-reflections/internal/app"
	"github.com/jsamuelsen/daily-reflections/internal/domain"
	"github.com/jsamuelsen/daily-reflections/internal/generator"
	"github.com/jsamuelsen/daily-reflections/internal/history"
	"github.com/jsamuelsen/daily-reflections/internal/platform/config"
	"github.com/jsamuelsen/daily-reflections/internal/platform/metrics"
	"github.com/jsamuelsen/daily-reflections/internal/quotes"
	"github.com/jsamuelsen/daily-reflections/internal/render"
)

// components holds the wired object graph shared by the subcommands.
type components struct {
	store       *storage.BadgerStore
	quotes      *quotes.Source
	history     *history.Store
	pipeline    *app.Pipeline
	reflections *app.ReflectionService
	metrics     *metrics.Pipeline
}

// buildComponents opens the document store and wires the full pipeline.
// The caller must Close the returned components.
func buildComponents(cfg *config.Config, logger *slog.Logger) (*components, error) {
	store, err := storage.NewBadgerStore(storage.BadgerConfig{
		Path:   cfg.Storage.Path,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}

	quoteSource := quotes.NewSource(quotes.Config{
		Store:  store,
		Key:    cfg.Storage.QuotesKey,
		Logger: logger,
	})

	historyStore := history.NewStore(history.Config{
		Store:  store,
		Key:    cfg.Storage.HistoryKey,
		Logger: logger,
	})

	textgen := anthropic.NewGenerator(anthropic.Config{
		APIKey: cfg.Generator.APIKey,
		Model:  cfg.Generator.Model,
		Logger: logger,
	})

	gen := generator.New(generator.Config{
		TextGenerator: textgen,
		Budget: domain.Budget{
			MaxTokens: cfg.Generator.MaxTokens,
			Timeout:   cfg.Generator.Timeout,
		},
		MinWords: cfg.Pipeline.MinWords,
		MaxWords: cfg.Pipeline.MaxWords,
		Logger:   logger,
	})

	mailer := smtp.NewMailer(smtp.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		Logger:   logger,
	})

	pipelineMetrics := metrics.NewPipeline(prometheus.DefaultRegisterer)

	pipeline := app.NewPipeline(app.PipelineConfig{
		Quotes:        quoteSource,
		History:       historyStore,
		Generator:     gen,
		Renderer:      render.NewRenderer(),
		Mailer:        mailer,
		Store:         store,
		RecipientsKey: cfg.Storage.RecipientsKey,
		Sender:        cfg.Pipeline.Sender,
		RetentionDays: cfg.Pipeline.RetentionDays,
		Logger:        logger,
		Metrics:       pipelineMetrics,
	})

	reflections := app.NewReflectionService(app.ReflectionServiceConfig{
		History: historyStore,
		Logger:  logger,
	})

	return &components{
		store:       store,
		quotes:      quoteSource,
		history:     historyStore,
		pipeline:    pipeline,
		reflections: reflections,
		metrics:     pipelineMetrics,
	}, nil
}

// Close releases the document store.
func (c *components) Close() error {
	return c.store.Close()
}
