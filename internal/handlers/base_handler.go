package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lingopath/backend/internal/apperr"
	"github.com/lingopath/backend/internal/middleware"
	"go.uber.org/zap"
)

// BaseHandler holds the response helpers shared by all handlers
type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error to 404 or 500
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, notFound, failed string) {
	if errors.Is(err, apperr.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, notFound)
		return
	}
	h.logger.Error(failed,
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Error(err),
	)
	h.respondError(w, http.StatusInternalServerError, failed)
}

// idParam parses a positive integer URL parameter
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
