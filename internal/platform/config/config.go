// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default read-API port.
	DefaultServerPort = 8080

	// DefaultRetentionDays bounds history growth. Intentionally wider than
	// the 365-day quote cycle so pruning never races the repeat window.
	DefaultRetentionDays = 400

	// DefaultGeneratorMaxTokens caps the generated response size.
	DefaultGeneratorMaxTokens = 2000

	// DefaultGeneratorTimeout bounds a single generation call.
	DefaultGeneratorTimeout = 25 * time.Second

	// DefaultMinWords is the lower edge of the warn-only word-count band.
	DefaultMinWords = 200

	// DefaultMaxWords is the upper edge of the warn-only word-count band.
	DefaultMaxWords = 500

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28
)

// Config is the root configuration structure. It is constructed once at
// process start and threaded explicitly through every component; no
// component reads the environment on its own.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Pipeline  PipelineConfig  `koanf:"pipeline"  validate:"required"`
	Generator GeneratorConfig `koanf:"generator" validate:"required"`
	SMTP      SMTPConfig      `koanf:"smtp"      validate:"required"`
	Storage   StorageConfig   `koanf:"storage"   validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains read-API HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// PipelineConfig contains daily pipeline settings.
type PipelineConfig struct {
	// Schedule is a cron expression for the daily trigger.
	Schedule string `koanf:"schedule" validate:"required"`

	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string `koanf:"timezone" validate:"required"`

	// Sender is the From address for all outgoing mail.
	Sender string `koanf:"sender" validate:"required,email"`

	// RetentionDays is the history retention horizon.
	RetentionDays int `koanf:"retention_days" validate:"required,min=366"`

	// MinWords and MaxWords bound the warn-only word-count band.
	MinWords int `koanf:"min_words" validate:"required,min=1"`
	MaxWords int `koanf:"max_words" validate:"required,gtfield=MinWords"`

	// RunTimeout bounds one whole pipeline invocation.
	RunTimeout time.Duration `koanf:"run_timeout" validate:"required,min=1m"`
}

// GeneratorConfig contains generative-text service settings.
type GeneratorConfig struct {
	// APIKey has no underscore in its koanf key so the env override
	// APP_GENERATOR_APIKEY survives the env-to-path mapping.
	APIKey    string        `koanf:"apikey"     validate:"required"`
	Model     string        `koanf:"model"      validate:"required"`
	MaxTokens int           `koanf:"max_tokens" validate:"required,min=1"`
	Timeout   time.Duration `koanf:"timeout"    validate:"required,min=1s"`
}

// SMTPConfig contains mail gateway settings.
type SMTPConfig struct {
	Host     string `koanf:"host"     validate:"required"`
	Port     int    `koanf:"port"     validate:"required,min=1,max=65535"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// StorageConfig contains document store settings.
type StorageConfig struct {
	// Path is the directory for the embedded store's files.
	Path string `koanf:"path" validate:"required"`

	// Keys of the three documents the pipeline reads and writes.
	QuotesKey     string `koanf:"quotes_key"     validate:"required"`
	HistoryKey    string `koanf:"history_key"    validate:"required"`
	RecipientsKey string `koanf:"recipients_key" validate:"required"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "daily-reflections",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/reflectiond.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "daily-reflections",
		"telemetry.sampling_rate": 1.0,

		"pipeline.schedule":       "0 7 * * *",
		"pipeline.timezone":       "UTC",
		"pipeline.retention_days": DefaultRetentionDays,
		"pipeline.min_words":      DefaultMinWords,
		"pipeline.max_words":      DefaultMaxWords,
		"pipeline.run_timeout":    "5m",

		"generator.model":      "claude-sonnet-4-5-20250929",
		"generator.max_tokens": DefaultGeneratorMaxTokens,
		"generator.timeout":    "25s",

		"smtp.port": 587,

		"storage.path":           "./data",
		"storage.quotes_key":     "config/quotes_365_days.json",
		"storage.history_key":    "quote_history.json",
		"storage.recipients_key": "recipients.json",
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// 4. Load environment variables with APP_ prefix
	err = k.Load(env.Provider("APP_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "APP_")),
			"_",
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil // File doesn't exist, that's fine
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
