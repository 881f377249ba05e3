package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/banglish/backend/internal/llm"
	"github.com/banglish/backend/internal/models"
)

const chatInstruction = `You are a friendly assistant that chats in Bengali.
Reply to the user's message in Bengali script only, in at most three sentences.

User: %s`

// ChatService answers /chat messages. Banglish input is converted with the
// translator; Bengali input gets a short conversational reply.
type ChatService struct {
	translator *Translator
	generator  llm.Generator
	timeout    time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func NewChatService(translator *Translator, generator llm.Generator, timeout time.Duration, logger *zap.Logger) *ChatService {
	if timeout <= 0 {
		timeout = DefaultModelTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		translator: translator,
		generator:  generator,
		timeout:    timeout,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *ChatService) Reply(ctx context.Context, message string) (models.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.ChatReply{}, NewValidationError(map[string]string{"message": "Message is required"})
	}

	reply := models.ChatReply{ID: uuid.NewString()}

	if ContainsBengali(message) {
		out, err := generateText(ctx, s.generator, s.timeout, fmt.Sprintf(chatInstruction, message))
		if err != nil {
			s.logger.Error("chat reply failed", zap.String("chat_id", reply.ID), zap.Error(err))
			return models.ChatReply{}, err
		}
		reply.Response = out
	} else {
		if s.translator == nil {
			return models.ChatReply{}, fmt.Errorf("%w: no translator configured", ErrExternalService)
		}
		out, err := s.translator.Translate(ctx, message)
		if err != nil {
			return models.ChatReply{}, err
		}
		reply.Response = out
		reply.Translated = true
	}

	reply.Timestamp = s.now().UTC()
	return reply, nil
}

// ContainsBengali reports whether s has at least one Bengali-script letter.
func ContainsBengali(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Bengali, r) && (unicode.IsLetter(r) || unicode.IsMark(r)) {
			return true
		}
	}
	return false
}
