package http

import (
	"github.com/hd-auth-api/internal/infrastructure/dynamo"
	"github.com/hd-auth-api/internal/infrastructure/google"
	jwtinfra "github.com/hd-auth-api/internal/infrastructure/jwt"
	"github.com/hd-auth-api/internal/infrastructure/smtp"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	OTPRepo     *dynamo.OTPRepo
	Mailer      smtp.Mailer
	JWTProvider *jwtinfra.Provider
	Google      *google.Client
}
