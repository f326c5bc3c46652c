package google

import (
	"context"
	"fmt"

	"github.com/hd-auth-api/internal/config"
	"github.com/hd-auth-api/internal/domain"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// Profile holds the verified claims extracted from a Google ID token.
type Profile struct {
	Sub           string
	Email         string
	Name          string
	EmailVerified bool
}

// Client drives the Google authorization-code flow and verifies the
// resulting ID token against our client ID.
type Client struct {
	oauth    *oauth2.Config
	clientID string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     googleoauth.Endpoint,
		},
		clientID: cfg.GoogleClientID,
	}
}

// AuthURL returns the Google consent-screen URL carrying the given state.
func (c *Client) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens and returns the verified
// profile. Returns a domain.ErrUnauthorized-wrapped error if the code or the
// ID token is invalid.
func (c *Client) Exchange(ctx context.Context, code string) (*Profile, error) {
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange failed: %w", domain.ErrUnauthorized)
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("google response missing id_token: %w", domain.ErrUnauthorized)
	}
	p, err := idtoken.Validate(ctx, raw, c.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", domain.ErrUnauthorized)
	}
	email, _ := p.Claims["email"].(string)
	name, _ := p.Claims["name"].(string)
	emailVerified, _ := p.Claims["email_verified"].(bool)
	if p.Subject == "" || email == "" {
		return nil, fmt.Errorf("google token missing subject or email: %w", domain.ErrUnauthorized)
	}
	return &Profile{
		Sub:           p.Subject,
		Email:         email,
		Name:          name,
		EmailVerified: emailVerified,
	}, nil
}
