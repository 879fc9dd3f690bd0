package services

import (
	"regexp"
	"strings"
)

// Basic local@domain.tld shape. Format checks run before any store access.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail lowercases a trimmed email. Emails are case-insensitive
// login keys; every lookup and write goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
