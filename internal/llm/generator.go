// Package llm holds the text-generation port used by the translation pipeline
// and its provider adapters.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyResponse = errors.New("model returned an empty response")
	ErrBreakerOpen   = errors.New("model provider temporarily unavailable")
)

// Generator turns a prompt into model text. Implementations must honour ctx
// cancellation and return the raw, untrimmed model output.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config selects and configures one provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

func (c Config) provider() string { return strings.ToLower(strings.TrimSpace(c.Provider)) }

func nonEmpty(provider, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", provider, ErrEmptyResponse)
	}
	return text, nil
}
