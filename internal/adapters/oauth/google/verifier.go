// Package google verifies Google ID tokens for federated sign-in.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/userauth/internal/core/ports"
	"google.golang.org/api/idtoken"
)

var (
	ErrMissingEmail     = errors.New("email not found in claims")
	ErrEmailNotVerified = errors.New("email not verified by google")
)

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type Verifier struct {
	validate validateFunc
}

func NewVerifier() *Verifier {
	return &Verifier{validate: idtoken.Validate}
}

var _ ports.TokenVerifier = (*Verifier)(nil)

// Verify checks the token signature and audience, then extracts the email
// and display name. A missing name falls back to the email address.
func (v *Verifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	payload, err := v.validate(ctx, token, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate id token: %w", err)
	}

	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		return nil, ErrMissingEmail
	}
	if verified, present := payload.Claims["email_verified"].(bool); present && !verified {
		return nil, ErrEmailNotVerified
	}

	name, _ := payload.Claims["name"].(string)
	if name == "" {
		name = email
	}
	return &ports.TokenPayload{Email: email, Name: name}, nil
}
