package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func newLoadCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Import a JSON document into the document store",
		Long: "Reads a JSON file and stores it under the given key. Used to deploy the\n" +
			"quote dataset and the recipient list into the embedded store.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return loadDocument(cmd.Context(), args[0], key)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "store key to write the document under")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func loadDocument(ctx context.Context, path, key string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}

	if !json.Valid(raw) {
		return fmt.Errorf("%q is not valid JSON", path)
	}

	comps, err := buildComponents(cfg, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := comps.Close(); closeErr != nil {
			logger.Error("store close error", slog.Any("error", closeErr))
		}
	}()

	if err := comps.store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("storing document: %w", err)
	}

	logger.Info("document stored",
		slog.String("key", key),
		slog.Int("bytes", len(raw)))

	return nil
}
