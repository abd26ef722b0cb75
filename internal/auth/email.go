package auth

import "strings"

// NormalizeEmail canonicalizes an email address for equality comparisons.
// It never fails; syntax validation happens at the request boundary instead.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
