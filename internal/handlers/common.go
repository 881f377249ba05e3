package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/banglish/backend/internal/models"
	"github.com/banglish/backend/internal/services"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// writeError maps service errors onto status codes. The body is always the
// {success:false, error} envelope.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(verr.Fields))
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Validation failed"))
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Not found"))
	case errors.Is(err, services.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("Contribution has already been moderated"))
	case errors.Is(err, services.ErrEmailExists):
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("Email already registered"))
	case errors.Is(err, services.ErrUsernameExists):
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("Username already taken"))
	case errors.Is(err, services.ErrExternalService), errors.Is(err, services.ErrFormat):
		logger.Error(fallback, zap.Error(err))
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse(fallback))
	default:
		logger.Error(fallback, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(fallback))
	}
}

// queryInt parses an integer query parameter, returning def when absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
