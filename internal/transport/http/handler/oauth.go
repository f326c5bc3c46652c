package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/hd-auth-api/internal/application/auth"
	"github.com/hd-auth-api/internal/infrastructure/google"
	"github.com/hd-auth-api/internal/pkg/token"
)

const stateCookie = "oauth_state"

// GoogleExchanger is the part of the Google client this handler needs.
type GoogleExchanger interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*google.Profile, error)
}

// OAuthHandler drives the Google redirect flow.
type OAuthHandler struct {
	svc         auth.Service
	google      GoogleExchanger
	frontendURL string
}

func NewOAuthHandler(svc auth.Service, g GoogleExchanger, frontendURL string) *OAuthHandler {
	return &OAuthHandler{svc: svc, google: g, frontendURL: frontendURL}
}

// Start redirects the browser to the Google consent screen, pinning a state
// nonce in a short-lived cookie.
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	state, err := token.NewState()
	if err != nil {
		h.redirectError(w, r)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthURL(state), http.StatusFound)
}

// Callback validates the state, exchanges the code, resolves the account and
// redirects back to the frontend with the token and user in the query.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != q.Get("state") || q.Get("code") == "" {
		h.redirectError(w, r)
		return
	}
	// The nonce is single-use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	profile, err := h.google.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		h.redirectError(w, r)
		return
	}
	keepLoggedIn := q.Get("keepLoggedIn") == "true"
	result, err := h.svc.GoogleLogin(r.Context(), profile, keepLoggedIn)
	if err != nil {
		h.redirectError(w, r)
		return
	}

	userJSON, err := json.Marshal(toSafeUser(result.User))
	if err != nil {
		h.redirectError(w, r)
		return
	}
	dest := h.frontendURL + "/dashboard?" + url.Values{
		"token": {result.Token},
		"user":  {string(userJSON)},
	}.Encode()
	http.Redirect(w, r, dest, http.StatusFound)
}

func (h *OAuthHandler) redirectError(w http.ResponseWriter, r *http.Request) {
	dest := h.frontendURL + "/signin?" + url.Values{"error": {"Google authentication failed"}}.Encode()
	http.Redirect(w, r, dest, http.StatusFound)
}
