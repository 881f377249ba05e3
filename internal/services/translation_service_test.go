package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/banglish/backend/internal/llm"
	"github.com/banglish/backend/internal/models"
	"github.com/banglish/backend/internal/testutil"
)

func TestTranslator_Translate(t *testing.T) {
	gen := new(testutil.MockGenerator)
	store := new(testutil.MockContributionStore)

	store.On("ListRecent", mock.Anything, DefaultExampleLimit).Return([]models.Contribution{}, nil)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasSuffix(p, "Banglish: ami valo achi")
	})).Return("  আমি ভালো আছি\n", nil)

	tr := NewTranslator(gen, store, TranslatorConfig{ExampleLimit: DefaultExampleLimit}, testutil.NewTestLogger())

	got, err := tr.Translate(context.Background(), "ami valo achi")

	require.NoError(t, err)
	assert.Equal(t, "আমি ভালো আছি", got)
	gen.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestTranslator_BlankInput(t *testing.T) {
	gen := new(testutil.MockGenerator)
	tr := NewTranslator(gen, nil, TranslatorConfig{}, testutil.NewTestLogger())

	_, err := tr.Translate(context.Background(), " \n\t")

	require.ErrorIs(t, err, ErrValidation)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestTranslator_ModelFailures(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
	}{
		{name: "provider error", err: errors.New("quota exceeded")},
		{name: "open breaker", err: llm.ErrBreakerOpen},
		{name: "blank output", out: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(testutil.MockGenerator)
			gen.On("Generate", mock.Anything, mock.Anything).Return(tt.out, tt.err)

			tr := NewTranslator(gen, nil, TranslatorConfig{}, testutil.NewTestLogger())
			_, err := tr.Translate(context.Background(), "ami")

			assert.ErrorIs(t, err, ErrExternalService)
		})
	}
}

func TestTranslator_Timeout(t *testing.T) {
	slow := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	tr := NewTranslator(slow, nil, TranslatorConfig{Timeout: 20 * time.Millisecond}, testutil.NewTestLogger())

	start := time.Now()
	_, err := tr.Translate(context.Background(), "ami")

	require.ErrorIs(t, err, ErrExternalService)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestTranslator_PromptUsesExamples(t *testing.T) {
	ts := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	approved := testutil.NewTestContribution("a", "bhalo", "ভালো", ts)
	approved.Status = models.StatusApproved
	rejected := testutil.NewTestContribution("r", "kharap", "খারাপ", ts)
	rejected.Status = models.StatusRejected
	pending := testutil.NewTestContribution("p", "shundor", "সুন্দর", ts)

	store := new(testutil.MockContributionStore)
	store.On("ListRecent", mock.Anything, 3).Return([]models.Contribution{approved, rejected, pending}, nil)

	tr := NewTranslator(nil, store, TranslatorConfig{ExampleLimit: 3}, testutil.NewTestLogger())
	prompt := tr.BuildTranslationPrompt(context.Background(), "ami")

	assert.Contains(t, prompt, `- "ভালো" for "bhalo"`)
	assert.Contains(t, prompt, `- "সুন্দর" for "shundor"`)
	assert.NotContains(t, prompt, "kharap")
	assert.True(t, strings.HasSuffix(prompt, "Banglish: ami"))
}

func TestTranslator_StoreFailureDegrades(t *testing.T) {
	store := new(testutil.MockContributionStore)
	store.On("ListRecent", mock.Anything, DefaultExampleLimit).Return(nil, ErrStorage)

	gen := new(testutil.MockGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return !strings.Contains(p, examplesHeading)
	})).Return("আমি", nil)

	tr := NewTranslator(gen, store, TranslatorConfig{ExampleLimit: DefaultExampleLimit}, testutil.NewTestLogger())
	got, err := tr.Translate(context.Background(), "ami")

	require.NoError(t, err)
	assert.Equal(t, "আমি", got)
}

func TestTranslator_ExampleLimitCapped(t *testing.T) {
	store := new(testutil.MockContributionStore)
	store.On("ListRecent", mock.Anything, MaxExampleLimit).Return([]models.Contribution{}, nil)

	tr := NewTranslator(nil, store, TranslatorConfig{ExampleLimit: 500}, testutil.NewTestLogger())
	tr.BuildTranslationPrompt(context.Background(), "ami")

	store.AssertCalled(t, "ListRecent", mock.Anything, MaxExampleLimit)
}

func TestTranslator_NoGenerator(t *testing.T) {
	tr := NewTranslator(nil, nil, TranslatorConfig{}, testutil.NewTestLogger())

	_, err := tr.Translate(context.Background(), "ami")

	assert.ErrorIs(t, err, ErrExternalService)
}
