// Package generator turns a quote, theme, and monthly context into a
// validated reflection via a bounded generative-text call.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
	"github.com/jsamuelsen/daily-reflections/internal/ports"
)

// fencedJSON matches a markdown-fenced JSON block anywhere in the response.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Generator produces one reflection per call. Each call gets exactly one
// attempt within the configured budget; there is no internal retry.
type Generator struct {
	textgen  ports.TextGenerator
	budget   domain.Budget
	minWords int
	maxWords int
	logger   *slog.Logger
}

// Config contains dependencies and limits for the generator.
type Config struct {
	TextGenerator ports.TextGenerator
	Budget        domain.Budget

	// MinWords and MaxWords bound the acceptable reflection length.
	// Violations are recorded as issues, never rejections.
	MinWords int
	MaxWords int

	Logger *slog.Logger
}

// New creates a generator. Panics if TextGenerator is nil.
func New(cfg Config) *Generator {
	if cfg.TextGenerator == nil {
		panic("generator.Generator: TextGenerator is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		textgen:  cfg.TextGenerator,
		budget:   cfg.Budget,
		minWords: cfg.MinWords,
		maxWords: cfg.MaxWords,
		logger:   logger.With(slog.String("component", "generator.Generator")),
	}
}

// Generate builds the prompt, performs the generation call, and validates
// the parsed reflection. Validation findings are warn-only: the result is
// returned for delivery even when Valid is false.
func (g *Generator) Generate(ctx context.Context, req domain.ReflectionRequest) (domain.ReflectionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.budget.Timeout)
	defer cancel()

	prompt := BuildPrompt(req)

	raw, err := g.textgen.Generate(ctx, prompt, g.budget)
	if err != nil {
		return domain.ReflectionResult{}, err
	}

	text, err := parseReflection(raw)
	if err != nil {
		return domain.ReflectionResult{}, domain.NewGenerationError("parse", err)
	}

	result := g.validate(text, req.Quote)

	if !result.Valid {
		g.logger.WarnContext(ctx, "reflection has validation issues",
			slog.Int("word_count", result.WordCount),
			slog.Any("issues", result.Issues),
		)
	}

	return result, nil
}

// parseReflection extracts the reflection text from the model response.
// The response is expected to be a JSON object with a "reflection" field,
// possibly wrapped in a markdown code fence.
func parseReflection(raw string) (string, error) {
	payload := strings.TrimSpace(raw)

	if m := fencedJSON.FindStringSubmatch(payload); m != nil {
		payload = m[1]
	}

	var parsed struct {
		Reflection string `json:"reflection"`
	}

	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if strings.TrimSpace(parsed.Reflection) == "" {
		return "", fmt.Errorf("response has empty reflection field")
	}

	return strings.TrimSpace(parsed.Reflection), nil
}

// validate checks the reflection against the configured word band and
// re-checks that the quote carried text and an attribution. A blank value
// means a corrupt dataset entry; like the word band it is recorded as an
// issue, never a rejection.
func (g *Generator) validate(text string, quote domain.Quote) domain.ReflectionResult {
	result := domain.ReflectionResult{
		Text:      text,
		WordCount: len(strings.Fields(text)),
		Valid:     true,
	}

	if result.WordCount < g.minWords {
		result.Valid = false
		result.Issues = append(result.Issues,
			fmt.Sprintf("reflection is %d words, below minimum %d", result.WordCount, g.minWords))
	}

	if result.WordCount > g.maxWords {
		result.Valid = false
		result.Issues = append(result.Issues,
			fmt.Sprintf("reflection is %d words, above maximum %d", result.WordCount, g.maxWords))
	}

	if strings.TrimSpace(quote.Text) == "" {
		result.Valid = false
		result.Issues = append(result.Issues, "quote text is empty")
	}

	if strings.TrimSpace(quote.Attribution) == "" {
		result.Valid = false
		result.Issues = append(result.Issues, "quote attribution is empty")
	}

	return result
}
