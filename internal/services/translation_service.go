package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/banglish/backend/internal/llm"
	"github.com/banglish/backend/internal/models"
)

const (
	DefaultExampleLimit = 10
	MaxExampleLimit     = 50
	DefaultModelTimeout = 30 * time.Second
)

type TranslatorConfig struct {
	// ExampleLimit is how many recent contributions are offered as examples.
	ExampleLimit int
	// Timeout bounds each model call.
	Timeout time.Duration
}

// Translator converts Banglish to Bengali script. Every call reaches the
// model; nothing is cached.
type Translator struct {
	generator    llm.Generator
	store        ContributionStore
	logger       *zap.Logger
	exampleLimit int
	timeout      time.Duration
}

func NewTranslator(generator llm.Generator, store ContributionStore, cfg TranslatorConfig, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := cfg.ExampleLimit
	if limit < 0 {
		limit = 0
	}
	if limit > MaxExampleLimit {
		limit = MaxExampleLimit
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultModelTimeout
	}
	return &Translator{
		generator:    generator,
		store:        store,
		logger:       logger,
		exampleLimit: limit,
		timeout:      timeout,
	}
}

// Translate returns the Bengali rendering of banglish. Model failures of any
// kind, including timeouts and blank output, are reported as ErrExternalService.
func (t *Translator) Translate(ctx context.Context, banglish string) (string, error) {
	if strings.TrimSpace(banglish) == "" {
		return "", NewValidationError(map[string]string{"text": "Text is required"})
	}

	prompt := t.BuildTranslationPrompt(ctx, banglish)

	out, err := generateText(ctx, t.generator, t.timeout, prompt)
	if err != nil {
		t.logger.Error("translation failed", zap.Int("input_len", len(banglish)), zap.Error(err))
		return "", err
	}
	return out, nil
}

// BuildTranslationPrompt assembles the prompt for banglish using the most
// recent non-rejected contributions. A store failure degrades to a prompt
// without examples.
func (t *Translator) BuildTranslationPrompt(ctx context.Context, banglish string) string {
	return BuildPrompt(banglish, TransliterationRules, RenderExamples(t.examples(ctx)))
}

func (t *Translator) examples(ctx context.Context) []models.Contribution {
	if t.store == nil || t.exampleLimit == 0 {
		return nil
	}

	recent, err := t.store.ListRecent(ctx, t.exampleLimit)
	if err != nil {
		t.logger.Warn("loading contribution examples failed; continuing without them", zap.Error(err))
		return nil
	}

	out := recent[:0:0]
	for _, c := range recent {
		if c.Status == models.StatusRejected {
			continue
		}
		out = append(out, c)
	}
	return out
}

// generateText runs one bounded model call and normalises its failures.
func generateText(ctx context.Context, gen llm.Generator, timeout time.Duration, prompt string) (string, error) {
	if gen == nil {
		return "", fmt.Errorf("%w: no model configured", ErrExternalService)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := gen.Generate(callCtx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	out := strings.TrimSpace(raw)
	if out == "" {
		return "", fmt.Errorf("%w: %v", ErrExternalService, llm.ErrEmptyResponse)
	}
	return out, nil
}
