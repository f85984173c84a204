package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/WorkPlanner/internal/client/gateway"
	"github.com/atinyakov/WorkPlanner/internal/models"
)

func signToken(t *testing.T, id int64, scope, subject string) string {
	t.Helper()
	claims := Claims{
		ID:    id,
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "self",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-client's-business"))
	require.NoError(t, err)
	return token
}

// fakeAPI answers /authenticate from a table of accounts and records the
// Authorization header of every other request.
type fakeAPI struct {
	t        *testing.T
	accounts map[string]string // username -> token

	mu       sync.Mutex
	lastAuth string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == AuthenticatePath {
		var req models.AuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		token, ok := f.accounts[req.Username]
		if !ok || req.Password != "secret" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.TokenResponse{Token: token})
		return
	}

	f.mu.Lock()
	f.lastAuth = r.Header.Get("Authorization")
	f.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (f *fakeAPI) authHeader() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func setup(t *testing.T) (*Store, *gateway.Client, *fakeAPI, map[string]string) {
	t.Helper()
	tokens := map[string]string{
		"admin": signToken(t, 1, "ADMIN", "admin"),
		"jo":    signToken(t, 2, "USER", "jo"),
		"bad":   "not.a.jwt",
	}
	api := &fakeAPI{t: t, accounts: tokens}
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	gw := gateway.New(ts.URL)
	return New(gw), gw, api, tokens
}

func TestLogin_Success(t *testing.T) {
	store, gw, api, tokens := setup(t)
	ctx := context.Background()

	require.True(t, store.Login(ctx, "admin", "secret"))

	st := store.State()
	assert.Equal(t, State{
		Authenticated: true,
		Username:      "admin",
		UserID:        1,
		Role:          models.RoleAdmin,
		Token:         tokens["admin"],
	}, st)

	require.NoError(t, gw.Get(ctx, "/teams", nil))
	assert.Equal(t, "Bearer "+tokens["admin"], api.authHeader())
}

func TestLogin_TwiceKeepsOnlyLatestCredential(t *testing.T) {
	store, gw, api, tokens := setup(t)
	ctx := context.Background()

	require.True(t, store.Login(ctx, "admin", "secret"))
	require.True(t, store.Login(ctx, "jo", "secret"))

	require.NoError(t, gw.Get(ctx, "/teams", nil))
	assert.Equal(t, "Bearer "+tokens["jo"], api.authHeader())

	st := store.State()
	assert.Equal(t, int64(2), st.UserID)
	assert.Equal(t, models.RoleUser, st.Role)
	assert.Equal(t, "jo", st.Username)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "bad credentials", username: "admin", password: "wrong"},
		{name: "unknown user", username: "nobody", password: "secret"},
		{name: "undecodable token", username: "bad", password: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, gw, api, _ := setup(t)
			ctx := context.Background()

			require.True(t, store.Login(ctx, "jo", "secret"))
			assert.False(t, store.Login(ctx, tt.username, tt.password))

			assert.Equal(t, State{}, store.State())
			assert.False(t, gw.HasCredentialStrategy())

			require.NoError(t, gw.Get(ctx, "/teams", nil))
			assert.Empty(t, api.authHeader())
		})
	}
}

func TestLogin_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	gw := gateway.New(url)
	gw.SetCredentialStrategy(gateway.BearerToken("stale"))
	store := New(gw)

	assert.False(t, store.Login(context.Background(), "admin", "secret"))
	assert.Equal(t, State{}, store.State())
	assert.False(t, gw.HasCredentialStrategy())
}

func TestLogin_NonOKSuccessStatusIsRejected(t *testing.T) {
	token := signToken(t, 1, "ADMIN", "admin")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.TokenResponse{Token: token})
	}))
	t.Cleanup(ts.Close)

	gw := gateway.New(ts.URL)
	store := New(gw)

	assert.False(t, store.Login(context.Background(), "admin", "secret"))
	assert.Equal(t, State{}, store.State())
	assert.False(t, gw.HasCredentialStrategy())
}

func TestLogout_ClearsStateAndCredential(t *testing.T) {
	store, gw, api, _ := setup(t)
	ctx := context.Background()

	require.True(t, store.Login(ctx, "admin", "secret"))
	store.Logout()

	assert.Equal(t, State{}, store.State())
	require.NoError(t, gw.Get(ctx, "/teams", nil))
	assert.Empty(t, api.authHeader())
}

func TestLogout_Idempotent(t *testing.T) {
	store, gw, _, _ := setup(t)
	require.True(t, store.Login(context.Background(), "admin", "secret"))

	store.Logout()
	once := store.State()
	store.Logout()

	assert.Equal(t, once, store.State())
	assert.Equal(t, State{}, store.State())
	assert.False(t, gw.HasCredentialStrategy())
}

func TestDecodeToken(t *testing.T) {
	good := signToken(t, 42, "USER", "jo")
	noID := signToken(t, 0, "USER", "jo")

	claims, err := DecodeToken(good)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ID)
	assert.Equal(t, "USER", claims.Scope)
	assert.Equal(t, "jo", claims.Subject)

	_, err = DecodeToken("")
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = DecodeToken("garbage")
	assert.Error(t, err)

	_, err = DecodeToken(noID)
	assert.Error(t, err)
}

func TestStore_ConcurrentReadsDuringLogin(t *testing.T) {
	store, _, _, _ := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				st := store.State()
				if st.Authenticated {
					assert.NotZero(t, st.UserID)
					assert.NotEmpty(t, st.Token)
					assert.NotEmpty(t, st.Role)
				} else {
					assert.Equal(t, State{}, st)
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		store.Login(ctx, "admin", "secret")
		store.Logout()
	}
	wg.Wait()
}
