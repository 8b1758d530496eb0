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

type AuthService struct {
	userRepo            ports.UserRepository
	sessionRepo         ports.SessionRepository
	hasher              ports.PasswordHasher
	tokens              ports.TokenService
	googleTokenVerifier ports.TokenVerifier
	googleClientID      string
	hashCost            int
}

type AuthServiceOption func(*AuthService)

// WithGoogle enables LoginWithGoogle. Without it Google credentials are
// always rejected.
func WithGoogle(verifier ports.TokenVerifier, clientID string) AuthServiceOption {
	return func(s *AuthService) {
		s.googleTokenVerifier = verifier
		s.googleClientID = clientID
	}
}

// WithHashCost sets the bcrypt cost for users created through Google sign-in.
func WithHashCost(cost int) AuthServiceOption {
	return func(s *AuthService) {
		s.hashCost = cost
	}
}

func NewAuthService(userRepo ports.UserRepository, sessionRepo ports.SessionRepository, hasher ports.PasswordHasher, tokens ports.TokenService, opts ...AuthServiceOption) *AuthService {
	s := &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokens:      tokens,
		hashCost:    DefaultHashCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate answers an unknown email and a wrong password the same way:
// an empty token and no error.
func (s *AuthService) Authenticate(ctx context.Context, input domain.AuthInput) (string, error) {
	if err := requireFields(
		field{"email", input.Email},
		field{"password", input.Password},
	); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", nil
	}

	ok, err := s.hasher.Compare(input.Password, user.Password)
	if err != nil {
		return "", fmt.Errorf("failed to compare password: %w", err)
	}
	if !ok {
		return "", nil
	}

	return s.startSession(ctx, user.ID)
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, credential string) (string, error) {
	if credential == "" {
		return "", domain.MissingParamError("credential")
	}
	if s.googleTokenVerifier == nil || s.googleClientID == "" {
		return "", domain.ErrUnauthorized
	}

	payload, err := s.googleTokenVerifier.Verify(ctx, credential, s.googleClientID)
	if err != nil {
		return "", fmt.Errorf("invalid google token: %v: %w", err, domain.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByEmail(ctx, payload.Email)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		user, err = s.createFederatedUser(ctx, payload)
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			// A concurrent first sign-in created the user; use that row.
			user, err = s.userRepo.GetByEmail(ctx, payload.Email)
			if err == nil && user == nil {
				err = errors.New("user vanished after email conflict")
			}
			if err != nil {
				return "", fmt.Errorf("failed to get user: %w", err)
			}
		}
		if err != nil {
			return "", err
		}
	}

	return s.startSession(ctx, user.ID)
}

func (s *AuthService) startSession(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.sessionRepo.UpdateAccessToken(ctx, userID, token); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// createFederatedUser stores a user that signs in through Google. Its password
// digest is derived from a random value nobody knows, so password login stays
// closed for it.
func (s *AuthService) createFederatedUser(ctx context.Context, payload *ports.TokenPayload) (*domain.User, error) {
	hashed, err := s.hasher.Hash(uuid.NewString(), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := payload.Name
	if name == "" {
		name = payload.Email
	}

	user := &domain.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     payload.Email,
		Password:  hashed,
		CreatedAt: time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
