package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// SigningAlgorithm is fixed; it is not read from configuration.
const SigningAlgorithm = "HS256"

// DefaultTokenTTL is how long a session token stays valid after login.
const DefaultTokenTTL = 30 * 24 * time.Hour

var ErrMissingSecret = errors.New("jwt signing secret is empty")

// Claims is what a verified session token asserts.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256 session tokens. The secret is set once
// at construction and never changes, so a TokenService is safe for concurrent use.
type TokenService struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
}

func NewTokenService(secret []byte, ttl time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		auth: jwtauth.New(SigningAlgorithm, secret, nil),
		ttl:  ttl,
	}, nil
}

// Issue signs a token for subject using the configured lifetime.
func (s *TokenService) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

// IssueWithTTL signs a token for subject that expires at now+ttl. A negative
// ttl yields a token that is already expired.
func (s *TokenService) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	_, tokenString, err := s.auth.Encode(claims)
	return tokenString, err
}

// Verify checks the signature, algorithm and expiry of tokenString. Any failure
// yields (nil, false); callers cannot tell why a token was rejected.
func (s *TokenService) Verify(tokenString string) (*Claims, bool) {
	if tokenString == "" {
		return nil, false
	}
	token, err := jwtauth.VerifyToken(s.auth, tokenString)
	if err != nil || token == nil {
		return nil, false
	}
	if token.Subject() == "" || token.Expiration().IsZero() {
		return nil, false
	}
	return &Claims{
		Subject:   token.Subject(),
		IssuedAt:  token.IssuedAt(),
		ExpiresAt: token.Expiration(),
	}, true
}

// TTL is the lifetime Issue applies.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
