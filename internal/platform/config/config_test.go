package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a config that passes validation, for mutation tests.
func validConfig() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}

	cfg.Generator.APIKey = "test-key"
	cfg.SMTP.Host = "smtp.example.com"
	cfg.Pipeline.Sender = "reflections@example.com"

	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "daily-reflections", cfg.App.Name)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultRetentionDays, cfg.Pipeline.RetentionDays)
	assert.Equal(t, "0 7 * * *", cfg.Pipeline.Schedule)
	assert.Equal(t, "UTC", cfg.Pipeline.Timezone)
	assert.Equal(t, DefaultGeneratorMaxTokens, cfg.Generator.MaxTokens)
	assert.Equal(t, DefaultGeneratorTimeout, cfg.Generator.Timeout)
	assert.Equal(t, DefaultMinWords, cfg.Pipeline.MinWords)
	assert.Equal(t, DefaultMaxWords, cfg.Pipeline.MaxWords)
	assert.Equal(t, "quote_history.json", cfg.Storage.HistoryKey)
	assert.Equal(t, "recipients.json", cfg.Storage.RecipientsKey)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_GENERATOR_MODEL", "claude-test-model")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "claude-test-model", cfg.Generator.Model)
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()

	require.NoError(t, cfg.Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.Generator.APIKey = "" },
			wantMsg: "generator.apikey is required",
		},
		{
			name:    "missing smtp host",
			mutate:  func(c *Config) { c.SMTP.Host = "" },
			wantMsg: "smtp.host is required",
		},
		{
			name:    "sender not an email address",
			mutate:  func(c *Config) { c.Pipeline.Sender = "not-an-address" },
			wantMsg: "must be a valid email address",
		},
		{
			name:    "retention shorter than quote cycle",
			mutate:  func(c *Config) { c.Pipeline.RetentionDays = 300 },
			wantMsg: "pipeline.retentiondays",
		},
		{
			name:    "word band inverted",
			mutate:  func(c *Config) { c.Pipeline.MaxWords = c.Pipeline.MinWords - 1 },
			wantMsg: "must be greater than",
		},
		{
			name:    "bad environment",
			mutate:  func(c *Config) { c.App.Environment = "staging" },
			wantMsg: "must be one of",
		},
		{
			name:    "run timeout too short",
			mutate:  func(c *Config) { c.Pipeline.RunTimeout = time.Second },
			wantMsg: "pipeline.runtimeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
