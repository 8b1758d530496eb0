package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/userauth/internal/core/domain"
	"github.com/vncsmyrnk/userauth/internal/core/ports"
)

type sessionService struct {
	sessionRepo ports.SessionRepository
	tokens      ports.TokenService
}

func NewSessionService(sessionRepo ports.SessionRepository, tokens ports.TokenService) ports.SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		tokens:      tokens,
	}
}

// ValidateToken resolves a bearer token to an identity. Both the signature and
// the stored session must check out; a nil identity with a nil error means the
// token is not accepted.
func (s *sessionService) ValidateToken(ctx context.Context, token string) (*domain.Identity, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || session.UserID != subject {
		return nil, nil
	}

	return &domain.Identity{
		UserID:    session.UserID,
		SessionID: session.ID,
		Token:     session.Token,
	}, nil
}

func (s *sessionService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
