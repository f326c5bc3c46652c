package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/hd-auth-api/internal/domain"
	"github.com/hd-auth-api/internal/infrastructure/google"
	"github.com/hd-auth-api/internal/infrastructure/smtp"
	"github.com/hd-auth-api/internal/pkg/id"
)

const (
	otpValidity = 10 * time.Minute
	otpCooldown = 30 * time.Second
)

type RegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

type SendOTPRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Action string `json:"action" validate:"required,oneof=signup login"`
}

type VerifyOTPRequest struct {
	UserID       string `json:"user_id" validate:"required"`
	OTP          string `json:"otp" validate:"required"`
	Action       string `json:"action" validate:"required,oneof=signup login"`
	KeepLoggedIn bool   `json:"keep_logged_in"`
}

// LoginResult is returned by every flow that ends with a session token.
type LoginResult struct {
	Token string
	User  *domain.User
}

// UserStore is the credential store the service needs.
type UserStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleSub(ctx context.Context, sub string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// OTPStore persists pending one-time passcodes.
type OTPStore interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	Latest(ctx context.Context, userID string) (*domain.OTPRecord, error)
	// DeleteIfPresent reports whether a row was actually removed, so racing
	// verifications resolve to a single winner.
	DeleteIfPresent(ctx context.Context, userID, otpID string) (bool, error)
}

// TokenSigner mints session tokens.
type TokenSigner interface {
	Sign(userID string, extended bool) (string, error)
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	RequestOTP(ctx context.Context, req SendOTPRequest) (userID string, err error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResult, error)
	GoogleLogin(ctx context.Context, profile *google.Profile, keepLoggedIn bool) (*LoginResult, error)
}

// ServiceDeps bundles the service's collaborators.
type ServiceDeps struct {
	Users  UserStore
	OTPs   OTPStore
	Mailer smtp.Mailer
	Tokens TokenSigner
}

type service struct {
	users  UserStore
	otps   OTPStore
	mailer smtp.Mailer
	tokens TokenSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:  deps.Users,
		otps:   deps.OTPs,
		mailer: deps.Mailer,
		tokens: deps.Tokens,
	}
}

// Register creates an unverified account and emails it a signup OTP.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	_, err := s.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, fmt.Errorf("user already exists: %w", domain.ErrAlreadyExists)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:    id.New(),
		Email:     req.Email,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}
	if err := s.issueOTP(ctx, u, domain.ActionSignup); err != nil {
		return nil, err
	}
	return u, nil
}

// RequestOTP issues a passcode for a signup or login flow, subject to the
// per-user cooldown. For signup with no existing account it creates the
// unverified user first.
func (s *service) RequestOTP(ctx context.Context, req SendOTPRequest) (string, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil && req.Action == domain.ActionSignup:
		return "", fmt.Errorf("user already exists: %w", domain.ErrAlreadyExists)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return "", err
	case err != nil && req.Action == domain.ActionLogin:
		return "", fmt.Errorf("user not found: %w", domain.ErrNotFound)
	case err != nil:
		now := time.Now().UTC()
		u = &domain.User{
			UserID:    id.New(),
			Email:     req.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.users.Put(ctx, u); err != nil {
			return "", err
		}
	}

	if err := s.checkCooldown(ctx, u.UserID); err != nil {
		return "", err
	}
	if err := s.issueOTP(ctx, u, req.Action); err != nil {
		return "", err
	}
	return u.UserID, nil
}

// VerifyOTP validates the submitted code against the most recently issued
// record, consumes it, and returns a session token.
func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResult, error) {
	u, err := s.users.Get(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}

	rec, err := s.otps.Latest(ctx, u.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no pending OTP: %w", domain.ErrInvalidOTP)
		}
		return nil, err
	}
	if rec.Code != req.OTP || rec.ExpiresAt <= time.Now().Unix() {
		return nil, fmt.Errorf("OTP mismatch or expired: %w", domain.ErrInvalidOTP)
	}

	// Consume before any further mutation so a duplicate request can never
	// replay the code. The conditional delete picks a single winner when
	// two verifications race.
	deleted, err := s.otps.DeleteIfPresent(ctx, u.UserID, rec.OTPID)
	if err != nil {
		return nil, fmt.Errorf("consume OTP: %w", err)
	}
	if !deleted {
		return nil, fmt.Errorf("OTP already consumed: %w", domain.ErrInvalidOTP)
	}

	switch req.Action {
	case domain.ActionSignup:
		if err := s.users.Update(ctx, u.UserID, map[string]interface{}{"verified": true}); err != nil {
			return nil, err
		}
		u.Verified = true
	case domain.ActionLogin:
		if !u.Verified {
			return nil, fmt.Errorf("account not verified, complete signup first: %w", domain.ErrForbidden)
		}
	}

	token, err := s.tokens.Sign(u.UserID, req.Action == domain.ActionLogin && req.KeepLoggedIn)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: u}, nil
}

// GoogleLogin resolves a verified Google profile to an account: by linked
// Google id first, then by email (merging a pre-existing OTP-registered
// account), else a fresh pre-verified user. Never touches OTP records.
func (s *service) GoogleLogin(ctx context.Context, profile *google.Profile, keepLoggedIn bool) (*LoginResult, error) {
	u, err := s.users.GetByGoogleSub(ctx, profile.Sub)
	if errors.Is(err, domain.ErrNotFound) {
		u, err = s.users.GetByEmail(ctx, profile.Email)
		switch {
		case err == nil:
			if err := s.users.Update(ctx, u.UserID, map[string]interface{}{
				"google_sub": profile.Sub,
				"verified":   true,
			}); err != nil {
				return nil, err
			}
			u.GoogleSub = profile.Sub
			u.Verified = true
		case errors.Is(err, domain.ErrNotFound):
			now := time.Now().UTC()
			u = &domain.User{
				UserID:    id.New(),
				Email:     profile.Email,
				Name:      profile.Name,
				GoogleSub: profile.Sub,
				Verified:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.users.Put(ctx, u); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	token, err := s.tokens.Sign(u.UserID, keepLoggedIn)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: u}, nil
}

func (s *service) checkCooldown(ctx context.Context, userID string) error {
	last, err := s.otps.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	elapsed := time.Since(time.Unix(last.CreatedAt, 0))
	if elapsed < otpCooldown {
		remaining := int(math.Ceil((otpCooldown - elapsed).Seconds()))
		return &domain.RateLimitedError{RetryAfterSeconds: remaining}
	}
	return nil
}

func (s *service) issueOTP(ctx context.Context, u *domain.User, action string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	rec := &domain.OTPRecord{
		UserID:    u.UserID,
		OTPID:     id.New(),
		Code:      code,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(otpValidity).Unix(),
	}
	if err := s.otps.Put(ctx, rec); err != nil {
		return err
	}

	purpose := "Login"
	if action == domain.ActionSignup {
		purpose = "Registration"
	}
	body := fmt.Sprintf("Your OTP is %s. It is valid for 10 minutes.", code)
	if err := s.mailer.SendEmail(u.Email, "Your OTP for HD account "+purpose, body); err != nil {
		// The record is left in place; it expires unused via TTL.
		slog.Error("failed to send OTP email", "user_id", u.UserID, "err", err)
		return fmt.Errorf("send OTP email: %w", domain.ErrDelivery)
	}
	return nil
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(100000+n.Int64(), 10), nil
}
