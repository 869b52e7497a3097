package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the quote dataset for missing or duplicated slots",
		Long: "Enumerates all 365 canonical (month, day) slots of the quote dataset and\n" +
			"reports missing entries, duplicates, and unknown themes. Exits non-zero\n" +
			"when the dataset is incomplete.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return validateDataset(cmd.Context())
		},
	}
}

func validateDataset(ctx context.Context) error {
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

	report, err := comps.quotes.ValidateCompleteness(ctx)
	if err != nil {
		return fmt.Errorf("validating dataset: %w", err)
	}

	fmt.Printf("total quotes: %d\n", report.TotalQuotes)

	for _, slot := range report.Missing {
		fmt.Printf("missing: %s\n", slot)
	}

	for _, slot := range report.Duplicates {
		fmt.Printf("duplicate: %s\n", slot)
	}

	for _, slot := range report.UnknownThemes {
		fmt.Printf("unknown theme: %s\n", slot)
	}

	if !report.Complete {
		return fmt.Errorf("dataset is incomplete: %d missing, %d duplicates",
			len(report.Missing), len(report.Duplicates))
	}

	fmt.Println("dataset is complete")

	return nil
}
