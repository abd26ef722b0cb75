package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost     = 14
	MinPasswordLen = 12
	MaxPasswordLen = 128
)

// Common weak passwords to reject
var commonPasswords = map[string]bool{
	"password":      true,
	"password123":   true,
	"123456789012":  true,
	"qwertyuiop12":  true,
	"letmein12345":  true,
	"changeme1234":  true,
	"administrator": true,
}

// HashPassword produces a bcrypt digest suitable for the owner password config
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// ComparePassword checks a candidate against a stored bcrypt digest
func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword enforces minimum requirements before hashing
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLen)
	}
	if commonPasswords[strings.ToLower(password)] {
		return fmt.Errorf("password is too common")
	}
	return nil
}
