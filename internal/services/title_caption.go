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

const titleCaptionInstruction = `Generate a creative title and caption in Bengali for the following Bengali text.
The title should be short (2-4 words) and catchy, while the caption should be a brief summary (15-20 words).

Text: %s

Provide the output in exactly this format, on two lines:
Title: <bengali_title>
Caption: <bengali_caption>`

type TitleCaptionService struct {
	generator llm.Generator
	timeout   time.Duration
	logger    *zap.Logger
}

func NewTitleCaptionService(generator llm.Generator, timeout time.Duration, logger *zap.Logger) *TitleCaptionService {
	if timeout <= 0 {
		timeout = DefaultModelTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TitleCaptionService{generator: generator, timeout: timeout, logger: logger}
}

// Generate asks the model for a title and caption and parses the reply.
func (s *TitleCaptionService) Generate(ctx context.Context, bengali string) (models.TitleCaption, error) {
	if strings.TrimSpace(bengali) == "" {
		return models.TitleCaption{}, NewValidationError(map[string]string{"text": "Text is required"})
	}

	raw, err := generateText(ctx, s.generator, s.timeout, fmt.Sprintf(titleCaptionInstruction, bengali))
	if err != nil {
		return models.TitleCaption{}, err
	}

	tc, err := ParseTitleCaption(raw)
	if err != nil {
		s.logger.Warn("unparseable title/caption response", zap.Int("response_len", len(raw)), zap.Error(err))
		return models.TitleCaption{}, err
	}
	return tc, nil
}

// ParseTitleCaption reads the first two non-blank lines of raw as title and
// caption, dropping optional "Title:" and "Caption:" labels. Fewer than two
// lines, or a label with nothing after it, is ErrFormat.
func ParseTitleCaption(raw string) (models.TitleCaption, error) {
	lines := make([]string, 0, 2)
	for _, line := range strings.Split(raw, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
			if len(lines) == 2 {
				break
			}
		}
	}
	if len(lines) < 2 {
		return models.TitleCaption{}, fmt.Errorf("%w: expected 2 lines, got %d", ErrFormat, len(lines))
	}

	title := stripLabel(lines[0], "title:")
	caption := stripLabel(lines[1], "caption:")
	if title == "" {
		return models.TitleCaption{}, fmt.Errorf("%w: empty title", ErrFormat)
	}
	if caption == "" {
		return models.TitleCaption{}, fmt.Errorf("%w: empty caption", ErrFormat)
	}
	return models.TitleCaption{Title: title, Caption: caption}, nil
}

// stripLabel removes a leading label, tolerating markdown emphasis such as
// "**Title:**".
func stripLabel(line, label string) string {
	s := strings.TrimLeft(line, "*_# ")
	if len(s) >= len(label) && strings.EqualFold(s[:len(label)], label) {
		s = s[len(label):]
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_"))
}
