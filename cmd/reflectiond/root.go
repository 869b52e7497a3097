package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/daily-reflections/internal/platform/config"
	"github.com/jsamuelsen/daily-reflections/internal/platform/logging"
)

var profile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reflectiond",
		Short:         "Daily Stoic reflection pipeline and read API",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&profile, "profile", "",
		"config profile (configs/{profile}.yaml); defaults to APP_ENVIRONMENT")

	root.AddCommand(
		newServeCmd(),
		newRunCmd(),
		newValidateCmd(),
		newLoadCmd(),
	)

	return root
}

// loadConfig loads and validates configuration for the selected profile.
func loadConfig() (*config.Config, error) {
	p := profile
	if p == "" {
		p = os.Getenv("APP_ENVIRONMENT")
	}

	if p == "" {
		p = "local"
	}

	cfg, err := config.Load(p)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// newLogger builds the process logger and installs it as the slog default.
func newLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	return logger
}
