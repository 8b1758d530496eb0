package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/userauth/internal/core/domain"
)

// UserRepository returns (nil, nil) from lookups that match nothing.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	FindAll(ctx context.Context) ([]*domain.User, error)
}
