package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.1"
)

// OllamaGenerator uses a local Ollama server's /api/chat endpoint.
type OllamaGenerator struct {
	baseURL string
	model   string
	http    *resty.Client
}

func NewOllamaGenerator(baseURL, model string) *OllamaGenerator {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    resty.New().SetTimeout(60 * time.Second),
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body := ollamaChatRequest{
		Model:    g.model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Options:  map[string]any{"temperature": 0.2},
	}

	var out ollamaChatResponse
	rr, err := g.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&out).
		Post(g.baseURL + "/api/chat")
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	if rr.IsError() {
		return "", fmt.Errorf("ollama: %s; body: %s", rr.Status(), abbreviate(rr.String(), 500))
	}
	return nonEmpty("ollama", out.Message.Content)
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
