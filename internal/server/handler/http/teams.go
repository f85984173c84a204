package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/WorkPlanner/internal/models"
)

// TeamService defines the team operations required by the TeamHandler.
type TeamService interface {
	Create(ctx context.Context, t models.Team) (models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Get(ctx context.Context, id int64) (models.Team, error)
	Delete(ctx context.Context, id int64) error
	Members(ctx context.Context, teamID int64) ([]models.User, error)
	AddMembers(ctx context.Context, teamID int64, userIDs []int64) error
	RemoveMember(ctx context.Context, teamID, userID int64) error
	SetLeader(ctx context.Context, teamID, userID int64) error
	ResetLeader(ctx context.Context, teamID int64) error
}

// TeamHandler serves /teams.
type TeamHandler struct {
	TeamService TeamService
	Log         *zap.Logger
}

// Create handles POST /teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var t models.Team
	if !decode(w, r, &t) {
		return
	}
	created, err := h.TeamService.Create(r.Context(), t)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.TeamService.List(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// Get handles GET /teams/{id}.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.TeamService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Delete handles DELETE /teams/{id}.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.TeamService.Delete(r.Context(), id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Members handles GET /teams/{id}/users.
func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	users, err := h.TeamService.Members(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// AddMembers handles PUT /teams/{id}/users with a JSON array of user ids.
func (h *TeamHandler) AddMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var userIDs []int64
	if !decode(w, r, &userIDs) {
		return
	}
	if err := h.TeamService.AddMembers(r.Context(), id, userIDs); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveMember handles DELETE /teams/{id}/users/{userId}.
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	h.withTeamUser(w, r, h.TeamService.RemoveMember)
}

// SetLeader handles PUT /teams/{id}/team-leader/{userId}.
func (h *TeamHandler) SetLeader(w http.ResponseWriter, r *http.Request) {
	h.withTeamUser(w, r, h.TeamService.SetLeader)
}

// ResetLeader handles DELETE /teams/{id}/team-leader.
func (h *TeamHandler) ResetLeader(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.TeamService.ResetLeader(r.Context(), id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) withTeamUser(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, int64) error) {
	teamID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	if err := op(r.Context(), teamID, userID); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
