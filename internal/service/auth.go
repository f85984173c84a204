package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/WorkPlanner/internal/models"
	"github.com/atinyakov/WorkPlanner/internal/repository"
)

// tokenIssuer is the "iss" claim of every token this server signs.
const tokenIssuer = "self"

// CredentialRepository looks up stored credentials.
type CredentialRepository interface {
	// Credentials returns the user and bcrypt hash stored for username.
	Credentials(ctx context.Context, username string) (models.User, string, error)
}

// TokenClaims is the payload of an access token.
type TokenClaims struct {
	ID    int64  `json:"id"`
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// AuthService checks passwords and issues and verifies HS256 access
// tokens.
type AuthService struct {
	repo   CredentialRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService constructs an AuthService signing with secret; tokens
// expire after ttl.
func NewAuthService(repo CredentialRepository, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{repo: repo, secret: secret, ttl: ttl, now: time.Now}
}

// Authenticate returns a signed token for valid credentials and
// ErrBadCredentials otherwise.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	u, hash, err := s.repo.Credentials(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}
	return s.Issue(u)
}

// Issue signs a token for u.
func (s *AuthService) Issue(u models.User) (string, error) {
	now := s.now()
	claims := TokenClaims{
		ID:    u.ID,
		Scope: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature, issuer and expiry of token and returns the
// identity it carries.
func (s *AuthService) Verify(token string) (models.Principal, error) {
	var claims TokenClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return models.Principal{}, err
	}
	if !claims.VerifyIssuer(tokenIssuer, true) {
		return models.Principal{}, errors.New("unexpected token issuer")
	}
	if claims.ID == 0 {
		return models.Principal{}, errors.New("token without id claim")
	}
	return models.Principal{
		ID:       claims.ID,
		Username: claims.Subject,
		Role:     models.Role(claims.Scope),
	}, nil
}

