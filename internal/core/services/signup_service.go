package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/userauth/internal/core/domain"
	"github.com/vncsmyrnk/userauth/internal/core/ports"
)

// DefaultHashCost is the bcrypt work factor used for new passwords.
const DefaultHashCost = 8

type signUpService struct {
	userRepo    ports.UserRepository
	sessionRepo ports.SessionRepository
	hasher      ports.PasswordHasher
	tokens      ports.TokenService
	hashCost    int
}

func NewSignUpService(userRepo ports.UserRepository, sessionRepo ports.SessionRepository, hasher ports.PasswordHasher, tokens ports.TokenService, hashCost int) ports.SignUpService {
	if hashCost <= 0 {
		hashCost = DefaultHashCost
	}
	return &signUpService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokens:      tokens,
		hashCost:    hashCost,
	}
}

func (s *signUpService) Register(ctx context.Context, input domain.SignUpInput) (string, error) {
	if err := requireFields(
		field{"name", input.Name},
		field{"email", input.Email},
		field{"password", input.Password},
	); err != nil {
		return "", err
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return "", domain.ConflictError("email")
	}

	hashed, err := s.hasher.Hash(input.Password, s.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		Password:  hashed,
		CreatedAt: time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return "", domain.ConflictError("email")
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.sessionRepo.Create(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return domain.MissingParamError(f.name)
		}
	}
	return nil
}
