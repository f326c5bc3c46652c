package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidOTP    = errors.New("invalid or expired OTP")
	ErrDelivery      = errors.New("delivery failed")
)

// RateLimitedError is returned when an OTP is requested inside the
// per-user cooldown window. RetryAfterSeconds is always in [1, 30].
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting another OTP", e.RetryAfterSeconds)
}
