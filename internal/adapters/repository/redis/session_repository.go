package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/vncsmyrnk/userauth/internal/core/domain"
	"github.com/vncsmyrnk/userauth/internal/core/ports"
)

var ErrSessionExists = errors.New("session already exists for user")

const (
	tokenKeyPrefix = "user_token:token:"
	userKeyPrefix  = "user_token:user:"
)

type sessionRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r sessionRecord) toDomain() *domain.UserToken {
	return &domain.UserToken{
		ID:        r.ID,
		UserID:    r.UserID,
		Token:     r.Token,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// SessionRepository keeps two keys per session: the token key holds the
// JSON record and the user key holds the user's current token. Both expire
// after ttl; a zero ttl keeps them until deleted.
type SessionRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *goredis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func tokenKey(token string) string { return tokenKeyPrefix + token }

func userKey(userID uuid.UUID) string { return userKeyPrefix + userID.String() }

// maxTxRetries bounds optimistic-lock retries when concurrent writers touch
// the same user.
const maxTxRetries = 100

var ErrTooManyRetries = errors.New("session update kept conflicting")

type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

// withUserWatch runs fn under WATCH on the user key. fn must queue its writes
// through tx.TxPipelined so EXEC aborts if another writer got there first.
func (r *SessionRepository) withUserWatch(ctx context.Context, userID uuid.UUID, fn func(tx *goredis.Tx) error) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, fn, userKey(userID))
		if !errors.Is(err, goredis.TxFailedErr) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return ErrTooManyRetries
}

func (r *SessionRepository) Create(ctx context.Context, userID uuid.UUID, token string) error {
	now := time.Now().UTC()
	rec := sessionRecord{ID: uuid.New(), UserID: userID, Token: token, CreatedAt: now, UpdatedAt: now}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	err = r.withUserWatch(ctx, userID, func(tx *goredis.Tx) error {
		current, err := currentToken(ctx, tx, userID)
		if err != nil {
			return err
		}
		if current != "" {
			return ErrSessionExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, tokenKey(token), payload, r.ttl)
			pipe.Set(ctx, userKey(userID), token, r.ttl)
			return nil
		})
		return err
	})
	if errors.Is(err, ErrSessionExists) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*domain.UserToken, error) {
	rec, err := load(ctx, r.client, token)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

// UpdateAccessToken replaces the user's token. The previous token key is
// removed in the same transaction, so at most one token per user resolves.
func (r *SessionRepository) UpdateAccessToken(ctx context.Context, userID uuid.UUID, token string) error {
	err := r.withUserWatch(ctx, userID, func(tx *goredis.Tx) error {
		now := time.Now().UTC()

		previous, err := currentToken(ctx, tx, userID)
		if err != nil {
			return err
		}

		rec := sessionRecord{ID: uuid.New(), UserID: userID, CreatedAt: now}
		if previous != "" {
			old, err := load(ctx, tx, previous)
			if err != nil {
				return err
			}
			if old != nil {
				rec.ID = old.ID
				rec.CreatedAt = old.CreatedAt
			}
		}
		rec.Token = token
		rec.UpdatedAt = now

		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			if previous != "" && previous != token {
				pipe.Del(ctx, tokenKey(previous))
			}
			pipe.Set(ctx, tokenKey(token), payload, r.ttl)
			pipe.Set(ctx, userKey(userID), token, r.ttl)
			return nil
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update access token: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	err := r.withUserWatch(ctx, userID, func(tx *goredis.Tx) error {
		current, err := currentToken(ctx, tx, userID)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			if current != "" {
				pipe.Del(ctx, tokenKey(current))
			}
			pipe.Del(ctx, userKey(userID))
			return nil
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func currentToken(ctx context.Context, c getter, userID uuid.UUID) (string, error) {
	token, err := c.Get(ctx, userKey(userID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return token, nil
}

func load(ctx context.Context, c getter, token string) (*sessionRecord, error) {
	raw, err := c.Get(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &rec, nil
}
