package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewState generates a cryptographically random 64-character hex string,
// used as the OAuth state parameter to bind a callback to the browser
// that started the flow.
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
