package jwtinfra

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hd-auth-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider() *Provider {
	return NewProvider(&config.Config{JWTSecret: "test-secret"})
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := newTestProvider()

	token, err := p.Sign("u1", false)
	require.NoError(t, err)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestSign_DefaultExpiryIsOneHour(t *testing.T) {
	p := newTestProvider()

	token, err := p.Sign("u1", false)
	require.NoError(t, err)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 2)
}

func TestSign_ExtendedExpiryIsSevenDays(t *testing.T) {
	p := newTestProvider()

	token, err := p.Sign("u1", true)
	require.NoError(t, err)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), ttl.Seconds(), 2)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := newTestProvider().Sign("u1", false)
	require.NoError(t, err)

	other := NewProvider(&config.Config{JWTSecret: "another-secret"})
	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := newTestProvider().Verify("not-a-token")
	assert.Error(t, err)
}

func TestVerify_ExpiredToken(t *testing.T) {
	p := newTestProvider()

	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = p.Verify(signed)
	assert.Error(t, err)
}

func TestVerify_MissingUserIDClaim(t *testing.T) {
	p := newTestProvider()

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = p.Verify(signed)
	assert.Error(t, err)
}

func TestVerify_RejectsUnsignedAlg(t *testing.T) {
	p := newTestProvider()

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.Verify(signed)
	assert.Error(t, err)
}
