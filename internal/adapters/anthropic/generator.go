// Package anthropic adapts the Anthropic Messages API to the
// ports.TextGenerator contract.
package anthropic

import (
	"context"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
)

// Generator implements ports.TextGenerator on the Anthropic SDK. Each call
// is a single attempt: the SDK's default retries are disabled so the
// budget's timeout is the real wall-clock bound.
type Generator struct {
	client anthropic.Client
	model  string
	logger *slog.Logger
}

// Config contains settings for the Anthropic generator.
type Config struct {
	// APIKey authenticates against the Anthropic API.
	APIKey string

	// Model is the model identifier, e.g. "claude-sonnet-4-5-20250929".
	Model string

	Logger *slog.Logger
}

// NewGenerator creates an Anthropic-backed text generator.
func NewGenerator(cfg Config) *Generator {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		client: client,
		model:  cfg.Model,
		logger: logger.With(slog.String("component", "anthropic.Generator")),
	}
}

// Generate implements ports.TextGenerator.
func (g *Generator) Generate(ctx context.Context, prompt string, budget domain.Budget) (string, error) {
	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(budget.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", domain.NewGenerationError("call", err)
	}

	var text string

	for _, block := range message.Content {
		if block.Type == "text" {
			text = block.Text

			break
		}
	}

	if text == "" {
		return "", domain.NewGenerationError("parse",
			domain.NewValidationError("response", "no text block in response"))
	}

	g.logger.DebugContext(ctx, "generation call complete",
		slog.String("model", g.model),
		slog.Int64("input_tokens", message.Usage.InputTokens),
		slog.Int64("output_tokens", message.Usage.OutputTokens),
	)

	return text, nil
}
