package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/guardian-ai/apiserver/internal/store"
	"github.com/guardian-ai/apiserver/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateLastLogin(ctx context.Context, id int, at time.Time) error
	UpdateAPIKey(ctx context.Context, username, key string) error
	GetAPIKey(ctx context.Context, username string) (string, error)
}

// UserService encapsulates registration, login, and account settings.
type UserService struct {
	repo   UserRepository
	logger *zap.Logger
}

func NewUserService(repo UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Register creates a new account. It fails with ErrAlreadyExists when the
// username or email is taken, and with ErrRegistrationFailed on any
// storage problem.
func (s *UserService) Register(ctx context.Context, username, email, password string) (types.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		s.logger.Error("registration: existence check failed", zap.Error(err))
		return types.User{}, ErrRegistrationFailed
	}
	if exists {
		return types.User{}, ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("registration: password hashing failed", zap.Error(err))
		return types.User{}, ErrRegistrationFailed
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		// The pre-check races with concurrent registration; the unique
		// constraint is the authority.
		if errors.Is(err, store.ErrAlreadyExists) {
			return types.User{}, ErrAlreadyExists
		}
		s.logger.Error("registration: insert failed", zap.Error(err))
		return types.User{}, ErrRegistrationFailed
	}
	return user, nil
}

// Login verifies credentials and records the login time. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		s.logger.Error("login: lookup failed", zap.Error(err))
		return types.User{}, ErrLoginFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Error("login: last_login update failed", zap.Error(err))
		return types.User{}, ErrLoginFailed
	}
	user.LastLogin = &now

	return user, nil
}

// GetByID looks up a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateAPIKey stores the user's personal completion-provider key.
func (s *UserService) UpdateAPIKey(ctx context.Context, username, key string) error {
	if err := s.repo.UpdateAPIKey(ctx, username, key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUpdateFailed
		}
		s.logger.Error("api key update failed", zap.Error(err))
		return ErrUpdateFailed
	}
	return nil
}

// APIKey returns the user's stored provider key; empty when none is set.
func (s *UserService) APIKey(ctx context.Context, username string) (string, error) {
	key, err := s.repo.GetAPIKey(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUpdateFailed
		}
		s.logger.Error("api key lookup failed", zap.Error(err))
		return "", ErrUpdateFailed
	}
	return key, nil
}
