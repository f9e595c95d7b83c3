// Package auth verifies bearer tokens issued by the hosted auth provider.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingToken indicates no bearer token was presented
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken indicates the token failed parsing or verification
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Caller is the authenticated identity behind a request
type Caller struct {
	UserID uuid.UUID
	Email  string
}

// Claims are the token claims the service reads
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator turns a raw token into a Caller
type Authenticator interface {
	Authenticate(token string) (Caller, error)
}

// JWTAuthenticator verifies HS256 tokens signed with the provider's secret
type JWTAuthenticator struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTAuthenticator creates a new JWTAuthenticator
func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

// Authenticate verifies token and returns the caller named by its subject
func (a *JWTAuthenticator) Authenticate(token string) (Caller, error) {
	if token == "" {
		return Caller{}, ErrMissingToken
	}

	var claims Claims
	parsed, err := a.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return Caller{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Caller{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Caller{}, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	return Caller{UserID: userID, Email: claims.Email}, nil
}

// Issue signs a token for userID. Used by the CLI and tests.
func Issue(secret string, userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
