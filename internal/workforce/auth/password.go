package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is tuned so that verification takes tens of milliseconds,
// keeping brute-force attempts expensive.
const bcryptCost = 12

// HashPassword irreversibly hashes a plaintext password. Called exactly
// once per registration or credential change; the plaintext is never
// persisted or logged.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
