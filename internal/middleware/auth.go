// Package middleware provides HTTP middlewares for authentication,
// authorization, throttling and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/WorkPlanner/internal/models"
)

type ctxKey string

const principalKey ctxKey = "principal"

// TokenVerifier checks an access token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (models.Principal, error)
}

// isPublic reports whether a request may go through without a token:
// signing in and signing up.
func isPublic(r *http.Request) bool {
	return r.Method == http.MethodPost && (r.URL.Path == "/authenticate" || r.URL.Path == "/users")
}

// BearerAuth is a middleware that enforces token authentication.
//
// Every request except POST /authenticate and POST /users must carry
// "Authorization: Bearer <token>" with a token v accepts. On success the
// principal is stored in the request context, so it can be used downstream.
func BearerAuth(v TokenVerifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			p, err := v.Verify(token)
			if err != nil {
				log.Debug("token rejected", zap.Error(err))
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireScope rejects requests whose principal does not hold role.
func RequireScope(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if p.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext extracts the authenticated principal from the
// request context.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}
