package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/userauth/internal/core/domain"
)

// SessionRepository stores the token currently bound to each user.
// FindByToken returns (nil, nil) when no record holds the token.
type SessionRepository interface {
	Create(ctx context.Context, userID uuid.UUID, token string) error
	FindByToken(ctx context.Context, token string) (*domain.UserToken, error)
	UpdateAccessToken(ctx context.Context, userID uuid.UUID, token string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type SessionService interface {
	ValidateToken(ctx context.Context, token string) (*domain.Identity, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}
