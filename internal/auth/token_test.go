package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	iss, err := NewIssuer("secret", time.Hour)
	require.NoError(t, err)

	tok, exp, err := iss.Sign("game-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "game-1", id)
}

func TestVerifyRejects(t *testing.T) {
	iss, err := NewIssuer("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewIssuer("other-secret", time.Hour)
	require.NoError(t, err)

	foreign, _, err := other.Sign("game-1")
	require.NoError(t, err)

	expiredIss, err := NewIssuer("secret", time.Hour)
	require.NoError(t, err)
	expiredIss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredIss.Sign("game-1")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "game-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noneTok, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name string
		tok  string
	}{
		{"garbage", "not.a.jwt"},
		{"wrong key", foreign},
		{"expired", expired},
		{"alg none", noneTok},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := iss.Verify(tt.tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = iss.Verify("")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestNewIssuerEmptySecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	assert.Error(t, err)
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/game/x/ws?token=q", nil)
	assert.Equal(t, "q", FromRequest(r))

	r.Header.Set("Authorization", "Bearer  h ")
	assert.Equal(t, "h", FromRequest(r))

	r = httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "", FromRequest(r))
}
