package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GOOGLE_CLIENT_ID", "cid")
	t.Setenv("GOOGLE_CLIENT_SECRET", "csecret")
	t.Setenv("GOOGLE_REDIRECT_URL", "https://api.example.com/v1/auth/google/callback")
	t.Setenv("FRONTEND_URL", "https://app.example.com")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")
	t.Setenv("SMTP_USERNAME", "mailer")
	t.Setenv("SMTP_PASSWORD", "mailpass")
}

func TestLoad_AllRequiredPresent(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, "3000", cfg.AppPort)        // default
	assert.Equal(t, "users", cfg.DynamoTables.Users) // default
	assert.Equal(t, "otps", cfg.DynamoTables.OTPs)   // default
}

func TestLoad_MissingRequired_ListsAllAbsentVars(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SMTP_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "SMTP_PASSWORD")
	assert.NotContains(t, err.Error(), "AWS_REGION")
}

func TestLoad_AllowedOriginsSplit(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}
