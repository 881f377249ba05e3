package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/banglish/backend/internal/models"
	"github.com/banglish/backend/internal/services"
)

type ConvertHandler struct {
	translator *services.Translator
	titles     *services.TitleCaptionService
	analytics  *services.Analytics
	timeout    time.Duration
	logger     *zap.Logger
}

// NewConvertHandler wires the conversion pipeline. timeout bounds the whole
// request, covering both model calls.
func NewConvertHandler(translator *services.Translator, titles *services.TitleCaptionService, analytics *services.Analytics, timeout time.Duration, logger *zap.Logger) *ConvertHandler {
	return &ConvertHandler{
		translator: translator,
		titles:     titles,
		analytics:  analytics,
		timeout:    timeout,
		logger:     logger,
	}
}

func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req models.ConvertRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{"text": "Text is required"}))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	bengali, err := h.translator.Translate(ctx, req.Text)
	if err != nil {
		h.analytics.RecordFailure()
		writeError(w, h.logger, err, "Translation failed")
		return
	}

	// The translation stands on its own; a missing title or caption is not fatal.
	tc, err := h.titles.Generate(ctx, bengali)
	if err != nil {
		h.logger.Warn("title/caption unavailable", zap.Error(err))
		tc = models.TitleCaption{}
	}

	h.analytics.Record(bengali, req.Text, "")

	writeJSON(w, http.StatusOK, models.ConvertResponse{
		Success:     true,
		BengaliText: bengali,
		Title:       tc.Title,
		Caption:     tc.Caption,
	})
}
