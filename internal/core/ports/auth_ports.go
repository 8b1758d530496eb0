package ports

import (
	"context"

	"github.com/vncsmyrnk/userauth/internal/core/domain"
)

type TokenPayload struct {
	Email string
	Name  string
}

// TokenVerifier checks third party identity tokens (Google ID tokens).
type TokenVerifier interface {
	Verify(ctx context.Context, token string, clientID string) (*TokenPayload, error)
}

type SignUpService interface {
	Register(ctx context.Context, input domain.SignUpInput) (string, error)
}

type AuthService interface {
	// Authenticate returns an empty token and a nil error when the credentials
	// do not match a user.
	Authenticate(ctx context.Context, input domain.AuthInput) (string, error)
	LoginWithGoogle(ctx context.Context, credential string) (string, error)
}
