// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidLoginKey = errors.New("invalid login key")
	ErrNotAllowed      = errors.New("email not in allowlist")
)

// GenerateSessionToken creates a random secure token for a session.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateLoginKey creates an HMAC-based login key for an allowlisted email.
// This is deterministic and verifiable, so the operator can hand each user
// their key without storing it anywhere.
func GenerateLoginKey(email, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateLoginKey checks if the provided login key is valid for the email.
func ValidateLoginKey(email, key, salt string) error {
	expected := GenerateLoginKey(email, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidLoginKey
	}
	return nil
}

// CheckAllowlist verifies the email appears in the configured allowlist.
// An empty allowlist denies everyone (fail-safe).
func CheckAllowlist(email string, allowed []string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range allowed {
		if email == a {
			return nil
		}
	}
	return ErrNotAllowed
}
