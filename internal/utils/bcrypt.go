package utils

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a credential with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a credential with a bcrypt hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsPasswordHash reports whether stored looks like a bcrypt hash.
func IsPasswordHash(stored string) bool {
	if !strings.HasPrefix(stored, "$2a$") && !strings.HasPrefix(stored, "$2b$") && !strings.HasPrefix(stored, "$2y$") {
		return false
	}
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// MatchCredential compares a given credential with the stored one.
// Records seeded by hand keep plain credentials, so both forms are accepted.
func MatchCredential(stored, given string) bool {
	if stored == "" {
		return false
	}
	if IsPasswordHash(stored) {
		return CheckPasswordHash(given, stored)
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
