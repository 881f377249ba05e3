package handlers

import (
	"net/http"

	"github.com/banglish/backend/internal/models"
	"github.com/banglish/backend/internal/services"
)

type AnalyticsHandler struct {
	analytics *services.Analytics
}

func NewAnalyticsHandler(analytics *services.Analytics) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(h.analytics.Snapshot()))
}

// Series serves ?days=N of daily counts; days defaults to 7 and is capped at 365.
func (h *AnalyticsHandler) Series(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", services.DefaultSeriesDays)
	if err != nil || days < 1 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{"days": "Days must be a positive integer"}))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(h.analytics.Series(days)))
}
