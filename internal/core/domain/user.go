package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// UserToken binds an issued bearer token to its owner. Lookups happen by the
// literal token value, so removing the record invalidates the token server-side
// even while it is still cryptographically valid.
type UserToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is what a validated bearer token resolves to.
type Identity struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Token     string
}
