package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/userauth/internal/core/domain"
	"github.com/vncsmyrnk/userauth/internal/core/ports"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) ports.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, userID uuid.UUID, token string) error {
	query := `INSERT INTO user_tokens (id, user_id, token) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, uuid.New(), userID, token)
	return err
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*domain.UserToken, error) {
	query := `
		SELECT id, user_id, token, created_at, updated_at
		FROM user_tokens
		WHERE token = $1
	`
	ut := &domain.UserToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&ut.ID,
		&ut.UserID,
		&ut.Token,
		&ut.CreatedAt,
		&ut.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ut, nil
}

// UpdateAccessToken replaces the user's token, creating the record when the
// user has none yet.
func (r *SessionRepository) UpdateAccessToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		INSERT INTO user_tokens (id, user_id, token)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET token = EXCLUDED.token, updated_at = now()
	`
	_, err := r.db.ExecContext(ctx, query, uuid.New(), userID, token)
	return err
}

func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
