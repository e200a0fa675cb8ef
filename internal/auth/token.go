// internal/auth/token.go
//
// Play tokens: an HS256 JWT whose subject is the game ID. Whoever created a
// game holds its token and is the only client allowed to steer it.
//
// The signing key is derived from the configured secret with HKDF-SHA256 so
// the raw secret is never used as a MAC key directly.
package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "snake play token v1"

var (
	// ErrNoToken means the request carried no token at all.
	ErrNoToken = errors.New("no token")
	// ErrInvalidToken covers bad signatures, expiry and malformed claims.
	ErrInvalidToken = errors.New("invalid token")
)

// Issuer signs and verifies play tokens.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewIssuer derives the signing key from secret.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("auth: empty secret")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("auth: derive key: %w", err)
	}
	return &Issuer{key: key, ttl: ttl, now: time.Now}, nil
}

// Sign issues a token for gameID and reports when it expires.
func (i *Issuer) Sign(gameID string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   gameID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(i.key)
	return ss, exp, err
}

// Verify checks tok and returns the game ID it was issued for.
func (i *Issuer) Verify(tok string) (string, error) {
	if tok == "" {
		return "", ErrNoToken
	}
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !t.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// FromRequest extracts a token from "Authorization: Bearer" or, for
// websocket upgrades where browsers cannot set headers, the token query parameter.
func FromRequest(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return r.URL.Query().Get("token")
}
