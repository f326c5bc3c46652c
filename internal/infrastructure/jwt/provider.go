package jwtinfra

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hd-auth-api/internal/config"
)

// Session token lifetimes. Extended sessions are only issued for login
// flows where the client asked to stay logged in.
const (
	DefaultExpiry  = time.Hour
	ExtendedExpiry = 7 * 24 * time.Hour
)

// Claims holds the JWT payload fields. The user id is the sole custom claim.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens. It holds no mutable
// state: the signing secret is fixed at startup.
type Provider struct {
	secret []byte
}

func NewProvider(cfg *config.Config) *Provider {
	return &Provider{secret: []byte(cfg.JWTSecret)}
}

func (p *Provider) Sign(userID string, extended bool) (string, error) {
	expiry := DefaultExpiry
	if extended {
		expiry = ExtendedExpiry
	}
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.UserID == "" {
		return nil, errors.New("token missing user id claim")
	}
	return claims, nil
}
