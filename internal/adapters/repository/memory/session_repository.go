package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/userauth/internal/core/domain"
	"github.com/vncsmyrnk/userauth/internal/core/ports"
)

var ErrSessionExists = errors.New("session already exists for user")

// SessionRepository holds one token record per user, indexed by token.
type SessionRepository struct {
	mu      sync.RWMutex
	byUser  map[uuid.UUID]domain.UserToken
	byToken map[string]uuid.UUID
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		byUser:  make(map[uuid.UUID]domain.UserToken),
		byToken: make(map[string]uuid.UUID),
	}
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) Create(ctx context.Context, userID uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUser[userID]; exists {
		return ErrSessionExists
	}
	now := time.Now()
	r.put(domain.UserToken{ID: uuid.New(), UserID: userID, Token: token, CreatedAt: now, UpdatedAt: now})
	return nil
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*domain.UserToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.byToken[token]
	if !ok {
		return nil, nil
	}
	ut := r.byUser[userID]
	return &ut, nil
}

func (r *SessionRepository) UpdateAccessToken(ctx context.Context, userID uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	ut, exists := r.byUser[userID]
	if !exists {
		ut = domain.UserToken{ID: uuid.New(), UserID: userID, CreatedAt: now}
	} else {
		delete(r.byToken, ut.Token)
	}
	ut.Token = token
	ut.UpdatedAt = now
	r.put(ut)
	return nil
}

func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ut, ok := r.byUser[userID]; ok {
		delete(r.byToken, ut.Token)
		delete(r.byUser, userID)
	}
	return nil
}

func (r *SessionRepository) put(ut domain.UserToken) {
	r.byUser[ut.UserID] = ut
	r.byToken[ut.Token] = ut.UserID
}
