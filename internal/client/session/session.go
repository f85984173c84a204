// Package session owns the authentication state of the WorkPlanner client:
// who is logged in, as whom and with what authority. A successful login
// installs a bearer credential on the gateway so every later request carries
// the token; logout removes it.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/atinyakov/WorkPlanner/internal/client/gateway"
	"github.com/atinyakov/WorkPlanner/internal/models"
)

// AuthenticatePath is the endpoint exchanging credentials for a token.
const AuthenticatePath = "/authenticate"

// Gateway is the subset of the API client the session store drives.
type Gateway interface {
	Exchange(ctx context.Context, method, path string, body, out any) (int, error)
	SetCredentialStrategy(s gateway.CredentialStrategy)
	ClearCredentialStrategy()
}

// State is a snapshot of the session. The zero value is the logged-out state.
type State struct {
	Authenticated bool
	Username      string
	UserID        int64
	Role          models.Role
	Token         string
}

// Claims are the token claims the client relies on.
type Claims struct {
	// ID is the numeric user id.
	ID int64 `json:"id"`
	// Scope carries the user's role.
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// ErrNoToken is returned by DecodeToken for an empty token.
var ErrNoToken = errors.New("empty token")

// ErrUnexpectedStatus is reported when authentication answers with a
// success code other than 200.
var ErrUnexpectedStatus = errors.New("unexpected authentication status")

// DecodeToken extracts the claims of a JWT without verifying its signature.
// The API is the only party able to verify it; the client trusts the token
// it just received from the API.
func DecodeToken(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if claims.ID == 0 {
		return nil, errors.New("decode token: missing id claim")
	}
	return claims, nil
}

// Store is the single source of truth for the session. It is created empty,
// populated as a whole on Login and cleared as a whole on Logout.
type Store struct {
	gw  Gateway
	log *zap.Logger

	mu    sync.RWMutex
	state State
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report failed logins.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates an empty Store driving gw.
func New(gw Gateway, opts ...Option) *Store {
	s := &Store{gw: gw, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login exchanges the credentials for a token. On success it commits the
// full session and installs the token on the gateway, replacing any earlier
// credential. On any failure it leaves the store logged out and returns
// false. It never retries.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	var resp models.TokenResponse
	code, err := s.gw.Exchange(ctx, http.MethodPost, AuthenticatePath,
		models.AuthRequest{Username: username, Password: password}, &resp)
	if err == nil && code != http.StatusOK {
		err = fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}
	if err != nil {
		s.log.Warn("login failed", zap.String("username", username), zap.Error(err))
		s.Logout()
		return false
	}

	claims, err := DecodeToken(resp.Token)
	if err != nil {
		s.log.Warn("login failed", zap.String("username", username), zap.Error(err))
		s.Logout()
		return false
	}

	// No network call between here and Unlock: the state and the installed
	// credential change together.
	s.mu.Lock()
	s.state = State{
		Authenticated: true,
		Username:      username,
		UserID:        claims.ID,
		Role:          models.Role(claims.Scope),
		Token:         resp.Token,
	}
	s.gw.SetCredentialStrategy(gateway.BearerToken(resp.Token))
	s.mu.Unlock()

	s.log.Info("logged in", zap.String("username", username), zap.Int64("user_id", claims.ID))
	return true
}

// Logout clears the session and removes the credential from the gateway.
// Calling it while logged out is a no-op beyond reasserting the empty state.
func (s *Store) Logout() {
	s.mu.Lock()
	s.state = State{}
	s.gw.ClearCredentialStrategy()
	s.mu.Unlock()
}

// State returns a copy of the current session.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
