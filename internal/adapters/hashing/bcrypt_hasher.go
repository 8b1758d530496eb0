// Package hashing implements password digests with bcrypt.
package hashing

import (
	"errors"
	"fmt"

	"github.com/vncsmyrnk/userauth/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("password must not be empty")

type BcryptHasher struct{}

func NewBcryptHasher() ports.PasswordHasher {
	return &BcryptHasher{}
}

// Hash digests plaintext with the given cost. Costs outside bcrypt's range are
// rejected rather than silently adjusted.
func (h *BcryptHasher) Hash(plaintext string, cost int) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", fmt.Errorf("invalid bcrypt cost %d", cost)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Compare(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
