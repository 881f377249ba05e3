package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/banglish/backend/internal/models"
	"github.com/banglish/backend/internal/services"
)

type ChatHandler struct {
	chat    *services.ChatService
	timeout time.Duration
	logger  *zap.Logger
}

func NewChatHandler(chat *services.ChatService, timeout time.Duration, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, timeout: timeout, logger: logger}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	reply, err := h.chat.Reply(ctx, req.Message)
	if err != nil {
		writeError(w, h.logger, err, "Failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Success:   true,
		Response:  reply.Response,
		Timestamp: reply.Timestamp.Format(time.RFC3339),
	})
}
