package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/banglish/backend/internal/models"
	"github.com/banglish/backend/internal/testutil"
)

func TestRenderExamples(t *testing.T) {
	ts := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	withFeedback := testutil.NewTestContribution("1", "ami valo achi", "আমি ভালো আছি", ts)
	withFeedback.Feedback = "used as a greeting"
	plain := testutil.NewTestContribution("2", "tumi kemon acho", "তুমি কেমন আছো", ts)
	multiline := testutil.NewTestContribution("3", "ei\nline", "এই\n  লাইন", ts)

	tests := []struct {
		name  string
		input []models.Contribution
		lines []string
	}{
		{name: "empty", input: nil, lines: nil},
		{
			name:  "without feedback",
			input: []models.Contribution{plain},
			lines: []string{`- "তুমি কেমন আছো" for "tumi kemon acho"`},
		},
		{
			name:  "with feedback",
			input: []models.Contribution{withFeedback},
			lines: []string{
				`- "আমি ভালো আছি" for "ami valo achi"`,
				"  Context: used as a greeting",
			},
		},
		{
			name:  "mixed keeps order",
			input: []models.Contribution{withFeedback, plain},
			lines: []string{
				`- "আমি ভালো আছি" for "ami valo achi"`,
				"  Context: used as a greeting",
				`- "তুমি কেমন আছো" for "tumi kemon acho"`,
			},
		},
		{
			name:  "embedded newlines collapse",
			input: []models.Contribution{multiline},
			lines: []string{`- "এই লাইন" for "ei line"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderExamples(tt.input)
			if tt.lines == nil {
				assert.Equal(t, "", got)
				return
			}
			assert.Equal(t, tt.lines, strings.Split(got, "\n"))
		})
	}
}

func TestRenderExamples_LineCount(t *testing.T) {
	ts := time.Now()
	var in []models.Contribution
	withFeedback := 0
	for i := 0; i < 7; i++ {
		c := testutil.NewTestContribution("x", "kotha", "কথা", ts)
		if i%3 == 0 {
			c.Feedback = "note"
			withFeedback++
		}
		in = append(in, c)
	}

	lines := strings.Split(RenderExamples(in), "\n")
	assert.Len(t, lines, len(in)+withFeedback)
}

func TestBuildPrompt(t *testing.T) {
	block := `- "আমি" for "ami"`

	got := BuildPrompt("ami valo achi", "  RULES  ", block)

	assert.True(t, strings.HasPrefix(got, "RULES\n\n"))
	assert.True(t, strings.HasSuffix(got, "Banglish: ami valo achi"))

	rules := strings.Index(got, "RULES")
	examples := strings.Index(got, block)
	input := strings.Index(got, "ami valo achi")
	assert.Less(t, rules, examples)
	assert.Less(t, examples, input)
	assert.Contains(t, got, examplesHeading)
}

func TestBuildPrompt_NoExamples(t *testing.T) {
	got := BuildPrompt("kemon acho", TransliterationRules, "")

	assert.NotContains(t, got, examplesHeading)
	assert.Equal(t, strings.TrimSpace(TransliterationRules)+"\n\nBanglish: kemon acho", got)
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := BuildPrompt("x", TransliterationRules, "- y")
	b := BuildPrompt("x", TransliterationRules, "- y")
	assert.Equal(t, a, b)
}
