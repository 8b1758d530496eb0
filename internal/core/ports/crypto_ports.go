package ports

import "github.com/google/uuid"

type PasswordHasher interface {
	Hash(plaintext string, cost int) (string, error)
	// Compare reports false with a nil error when the password does not match.
	Compare(plaintext, digest string) (bool, error)
}

type TokenService interface {
	Issue(subject uuid.UUID) (string, error)
	Verify(token string) (uuid.UUID, error)
}
