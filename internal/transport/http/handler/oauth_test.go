package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/hd-auth-api/internal/application/auth"
	"github.com/hd-auth-api/internal/domain"
	"github.com/hd-auth-api/internal/infrastructure/google"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExchanger struct{ mock.Mock }

func (m *mockExchanger) AuthURL(state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state
}

func (m *mockExchanger) Exchange(ctx context.Context, code string) (*google.Profile, error) {
	args := m.Called(ctx, code)
	if p, _ := args.Get(0).(*google.Profile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

const frontend = "https://app.example.com"

func TestOAuthStart_RedirectsWithStateCookie(t *testing.T) {
	h := NewOAuthHandler(&mockAuthSvc{}, &mockExchanger{}, frontend)

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/google", nil)
	rr := httptest.NewRecorder()
	h.Start(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)

	var state string
	for _, c := range rr.Result().Cookies() {
		if c.Name == "oauth_state" {
			state = c.Value
		}
	}
	require.NotEmpty(t, state)
	assert.Contains(t, rr.Header().Get("Location"), "state="+state)
}

func TestOAuthCallback_StateMismatch(t *testing.T) {
	ex := &mockExchanger{}
	h := NewOAuthHandler(&mockAuthSvc{}, ex, frontend)

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/google/callback?code=abc&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "good"})
	rr := httptest.NewRecorder()
	h.Callback(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), frontend+"/signin?error=")
	ex.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything)
}

func TestOAuthCallback_ExchangeFailure(t *testing.T) {
	ex := &mockExchanger{}
	ex.On("Exchange", mock.Anything, "abc").
		Return(nil, fmt.Errorf("invalid google token: %w", domain.ErrUnauthorized))
	h := NewOAuthHandler(&mockAuthSvc{}, ex, frontend)

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/google/callback?code=abc&state=good", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "good"})
	rr := httptest.NewRecorder()
	h.Callback(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), frontend+"/signin?error=")
}

func TestOAuthCallback_Success(t *testing.T) {
	profile := &google.Profile{Sub: "sub1", Email: "a@x.com", Name: "A", EmailVerified: true}

	ex := &mockExchanger{}
	ex.On("Exchange", mock.Anything, "abc").Return(profile, nil)

	svc := &mockAuthSvc{}
	svc.On("GoogleLogin", mock.Anything, profile, true).Return(&auth.LoginResult{
		Token: "signed-token",
		User:  &domain.User{UserID: "u1", Email: "a@x.com", Name: "A", Verified: true},
	}, nil)

	h := NewOAuthHandler(svc, ex, frontend)

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/google/callback?code=abc&state=good&keepLoggedIn=true", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "good"})
	rr := httptest.NewRecorder()
	h.Callback(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)

	loc, err := url.Parse(rr.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", loc.Path)
	assert.Equal(t, "signed-token", loc.Query().Get("token"))
	assert.Contains(t, loc.Query().Get("user"), `"id":"u1"`)
}
