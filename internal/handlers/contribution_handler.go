package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/banglish/backend/internal/middleware"
	"github.com/banglish/backend/internal/models"
	"github.com/banglish/backend/internal/services"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	storeTimeout     = 10 * time.Second
)

type ContributionHandler struct {
	store  services.ContributionStore
	logger *zap.Logger
}

func NewContributionHandler(store services.ContributionStore, logger *zap.Logger) *ContributionHandler {
	return &ContributionHandler{store: store, logger: logger}
}

func (h *ContributionHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitContributionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}
	req.UserID = middleware.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	c, err := h.store.Submit(ctx, &req)
	if err != nil {
		writeError(w, h.logger, err, "Failed to save contribution")
		return
	}

	writeJSON(w, http.StatusCreated, models.MessageResponse{
		Success: true,
		Message: "Thank you for your contribution!",
		ID:      c.ID,
	})
}

// ListContributions serves the review queue, newest first. ?status narrows
// it to one state.
func (h *ContributionHandler) ListContributions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit < 1 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{"limit": "Limit must be a positive integer"}))
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	status := models.ContributionStatus(strings.ToLower(r.URL.Query().Get("status")))
	if status != "" && !status.Valid() {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{"status": "Status must be pending, approved or rejected"}))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	var list []models.Contribution
	if status == "" {
		list, err = h.store.ListRecent(ctx, limit)
	} else {
		list, err = h.store.ListByStatus(ctx, status, limit)
	}
	if err != nil {
		writeError(w, h.logger, err, "Failed to load contributions")
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(list))
}

func (h *ContributionHandler) GetContribution(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	c, err := h.store.Get(ctx, chi.URLParam(r, "contributionId"))
	if err != nil {
		writeError(w, h.logger, err, "Failed to load contribution")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(c))
}

func (h *ContributionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, models.StatusApproved)
}

func (h *ContributionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, models.StatusRejected)
}

func (h *ContributionHandler) moderate(w http.ResponseWriter, r *http.Request, decision models.ContributionStatus) {
	var req models.ModerationRequest
	// The comment is optional, so an empty body is fine.
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	req.Decision = decision
	req.ReviewerID = middleware.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	c, err := h.store.Moderate(ctx, chi.URLParam(r, "contributionId"), &req)
	if err != nil {
		writeError(w, h.logger, err, "Failed to moderate contribution")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(c))
}
