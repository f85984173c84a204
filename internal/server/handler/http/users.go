package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/WorkPlanner/internal/models"
)

// UserService defines the account operations required by the UserHandler.
type UserService interface {
	Register(ctx context.Context, reg models.UserRegistration) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (models.User, error)
	Delete(ctx context.Context, id int64) error
	Teams(ctx context.Context, userID int64) ([]models.Team, error)
	JoinTeam(ctx context.Context, userID, teamID int64) error
	LeaveTeam(ctx context.Context, userID, teamID int64) error
}

// UserHandler serves /users.
type UserHandler struct {
	UserService UserService
	Log         *zap.Logger
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var reg models.UserRegistration
	if !decode(w, r, &reg) {
		return
	}
	u, err := h.UserService.Register(r.Context(), reg)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.UserService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.UserService.Delete(r.Context(), id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Teams handles GET /users/{id}/teams.
func (h *UserHandler) Teams(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	teams, err := h.UserService.Teams(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// JoinTeam handles PUT /users/{id}/teams/{teamId}.
func (h *UserHandler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.UserService.JoinTeam)
}

// LeaveTeam handles DELETE /users/{id}/teams/{teamId}.
func (h *UserHandler) LeaveTeam(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.UserService.LeaveTeam)
}

func (h *UserHandler) membership(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, int64) error) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	if err := op(r.Context(), userID, teamID); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
