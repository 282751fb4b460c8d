package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of password using the default cost (10).
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("cannot hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash compares in constant time.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BcryptHasher adapts the package functions to an injectable hasher.
type BcryptHasher struct{}

func (BcryptHasher) Hash(password string) (string, error) {
	return HashPassword(password)
}

func (BcryptHasher) Compare(password, hash string) bool {
	return CheckPasswordHash(password, hash)
}
