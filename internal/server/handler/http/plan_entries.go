package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/WorkPlanner/internal/models"
)

// PlanEntryService defines the plan entry operations required by the
// PlanEntryHandler.
type PlanEntryService interface {
	List(ctx context.Context) ([]models.PlanEntry, error)
	Get(ctx context.Context, id int64) (models.PlanEntry, error)
	ListFor(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error)
	Create(ctx context.Context, teamID, userID int64, e models.PlanEntry) (models.PlanEntry, error)
	Delete(ctx context.Context, id int64) error
}

// PlanEntryHandler serves /plan-entries.
type PlanEntryHandler struct {
	PlanEntryService PlanEntryService
	Log              *zap.Logger
}

// List handles GET /plan-entries.
func (h *PlanEntryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.PlanEntryService.List(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Get handles GET /plan-entries/{id}.
func (h *PlanEntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	e, err := h.PlanEntryService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Delete handles DELETE /plan-entries/{id}.
func (h *PlanEntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.PlanEntryService.Delete(r.Context(), id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFor handles GET /plan-entries/teams/{teamId}/users/{userId}.
func (h *PlanEntryHandler) ListFor(w http.ResponseWriter, r *http.Request) {
	teamID, userID, ok := teamAndUser(w, r)
	if !ok {
		return
	}
	entries, err := h.PlanEntryService.ListFor(r.Context(), teamID, userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Create handles POST /plan-entries/teams/{teamId}/users/{userId}.
func (h *PlanEntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	teamID, userID, ok := teamAndUser(w, r)
	if !ok {
		return
	}
	var e models.PlanEntry
	if !decode(w, r, &e) {
		return
	}
	created, err := h.PlanEntryService.Create(r.Context(), teamID, userID, e)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func teamAndUser(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	teamID, ok := pathID(w, r, "teamId")
	if !ok {
		return 0, 0, false
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return 0, 0, false
	}
	return teamID, userID, true
}
