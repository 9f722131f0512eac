package auth

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenBytes is the entropy of bearer and CSRF token values.
const tokenBytes = 16

// GenerateTokenValue creates a random 16-byte value, base64-encoded.
// Used for bearer tokens and for the single-use CSRF form token.
func GenerateTokenValue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
