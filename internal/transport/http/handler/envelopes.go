package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hd-auth-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps responses that carry a session token.
type AuthEnvelope struct {
	Token string    `json:"token,omitempty"`
	User  *SafeUser `json:"user,omitempty"`
	Error string    `json:"error,omitempty"`
}

// RateLimitEnvelope reports how long the caller must wait before retrying.
type RateLimitEnvelope struct {
	Error             string `json:"error"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
}

// SafeUser is the public projection of a user record.
type SafeUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func toSafeUser(u *domain.User) *SafeUser {
	if u == nil {
		return nil
	}
	return &SafeUser{ID: u.UserID, Email: u.Email, Name: u.Name}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain errors to HTTP status codes. Anything unrecognized
// becomes a generic 500 so infrastructure detail never reaches clients.
func httpError(w http.ResponseWriter, err error) {
	var rl *domain.RateLimitedError
	switch {
	case errors.As(err, &rl):
		w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfterSeconds))
		writeJSON(w, http.StatusTooManyRequests, RateLimitEnvelope{
			Error:             rl.Error(),
			RetryAfterSeconds: rl.RetryAfterSeconds,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrInvalidOTP),
		errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server error")
	}
}
