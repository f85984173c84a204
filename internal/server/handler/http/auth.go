// Package http provides the HTTP handlers and routing of the WorkPlanner
// API.
package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/WorkPlanner/internal/models"
)

// AuthService defines the authentication operation required by the
// AuthHandler.
type AuthService interface {
	// Authenticate returns a signed access token for valid credentials.
	Authenticate(ctx context.Context, username, password string) (string, error)
}

// AuthHandler handles POST /authenticate.
type AuthHandler struct {
	AuthService AuthService
	Log         *zap.Logger
}

// Authenticate exchanges a username and password for a token.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req models.AuthRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	token, err := h.AuthService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}
