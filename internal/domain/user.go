package domain

import "time"

// Auth flow actions accepted by the OTP endpoints.
const (
	ActionSignup = "signup"
	ActionLogin  = "login"
)

type User struct {
	UserID    string    `json:"id" dynamodbav:"user_id"`
	Email     string    `json:"email" dynamodbav:"email"`
	Name      string    `json:"name,omitempty" dynamodbav:"name"`
	GoogleSub string    `json:"-" dynamodbav:"google_sub,omitempty"`
	Verified  bool      `json:"verified" dynamodbav:"verified"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}
