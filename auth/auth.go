// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// bcryptCost matches what the admin bootstrap needs; tests lower it
var bcryptCost = 12

// NewID returns a random UUIDv4 string for database rows
func NewID() string {
	return uuid.NewString()
}

// HashPassword hashes an admin password with bcrypt
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a candidate password
func CheckPassword(hash, plaintext string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// unknownUserHash is compared against when the username does not exist so
// the response takes as long as a wrong password
var unknownUserHash = sync.OnceValue(func() string {
	hash, _ := bcrypt.GenerateFromPassword([]byte("vivendo-na-fe"), bcryptCost)
	return string(hash)
})

// RejectUnknownUser spends a full password comparison and always fails
func RejectUnknownUser(plaintext string) error {
	CheckPassword(unknownUserHash(), plaintext)
	return ErrInvalidCredentials
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
