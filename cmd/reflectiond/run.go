package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/daily-reflections/internal/app"
	"github.com/jsamuelsen/daily-reflections/internal/domain"
)

func newRunCmd() *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one pipeline invocation and exit",
		Long: "Executes the full daily pipeline once: resolve the quote, generate the\n" +
			"reflection, persist history, and deliver to all recipients. Intended for\n" +
			"manual re-invocation after a failed scheduled run.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd.Context(), dateFlag)
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "",
		"run for a specific date (YYYY-MM-DD) instead of today")

	return cmd
}

func runOnce(ctx context.Context, dateFlag string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	comps, err := buildComponents(cfg, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := comps.Close(); closeErr != nil {
			logger.Error("store close error", slog.Any("error", closeErr))
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, cfg.Pipeline.RunTimeout)
	defer cancel()

	var result app.RunResult

	if dateFlag != "" {
		date, parseErr := time.Parse(domain.DateLayout, dateFlag)
		if parseErr != nil {
			return fmt.Errorf("invalid --date %q: %w", dateFlag, parseErr)
		}

		result, err = comps.pipeline.RunForDate(runCtx, date)
	} else {
		result, err = comps.pipeline.Run(runCtx)
	}

	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	logger.Info("run finished",
		slog.String("date", result.Date.Format(domain.DateLayout)),
		slog.String("state", string(result.State)),
		slog.Int("delivered", result.SuccessCount),
		slog.Int("failed", result.FailureCount),
	)

	return nil
}
