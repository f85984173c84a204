package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/WorkPlanner/internal/service"
)

// writeJSON writes v as a JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto status codes. Anything unknown is
// logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr.Messages)
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTeamNotFound),
		errors.Is(err, service.ErrPlanEntryNotFound):
		http.Error(w, service.Message(err), http.StatusNotFound)
	case errors.Is(err, service.ErrUsernameUsed),
		errors.Is(err, service.ErrTeamNameUsed):
		http.Error(w, service.Message(err), http.StatusConflict)
	case errors.Is(err, service.ErrBadCredentials):
		http.Error(w, service.Message(err), http.StatusUnauthorized)
	default:
		log.Error("request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// pathID reads a positive integer URL parameter; on failure it answers 400
// and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decode reads a JSON body into v; on failure it answers 400 and returns
// false.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return false
	}
	return true
}
