package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext login secret using bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) > 72 {
		return "", bcrypt.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext secret with a bcrypt hash. A malformed stored hash
// counts as a mismatch.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
