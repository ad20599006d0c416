package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/worksphere/server/internal/domain/entities"
	"github.com/worksphere/server/internal/infrastructure/logger"
	"github.com/worksphere/server/internal/ports"
)

// UserService handles account management. Passwords are bcrypt-hashed
// before they reach the repository; the plaintext never persists.
type UserService struct {
	userRepo ports.UserRepository
	logger   *logger.Logger
	now      func() time.Time
}

// NewUserService creates a new user service.
func NewUserService(userRepo ports.UserRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateUser creates an account. Username, password, name, and role are
// required; a duplicate username is a conflict.
func (s *UserService) CreateUser(ctx context.Context, req ports.CreateUserRequest) (*entities.User, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, entities.NewValidationError("username", "is required")
	}
	if req.Password == "" {
		return nil, entities.NewValidationError("password", "is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, entities.NewValidationError("name", "is required")
	}
	role, err := entities.ParseRole(req.Role)
	if err != nil {
		return nil, entities.NewValidationError("role", err.Error())
	}

	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, entities.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		CreatedAt:    s.now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("user created", "user_id", user.ID, "username", user.Username, "role", user.Role)

	return user, nil
}

// UpdateUser applies a partial patch to an account. A username change
// that collides with another account is a conflict.
func (s *UserService) UpdateUser(ctx context.Context, id string, req ports.UpdateUserRequest) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		existing, err := s.userRepo.GetByUsername(ctx, *req.Username)
		if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, entities.ErrUsernameTaken
		}
		user.Username = *req.Username
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil && *req.Role != "" {
		role, err := entities.ParseRole(*req.Role)
		if err != nil {
			return nil, entities.NewValidationError("role", err.Error())
		}
		user.Role = role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Infow("user updated", "user_id", user.ID, "username", user.Username)

	return user, nil
}

// DeleteUser removes an account. Tasks referencing the user are left
// untouched; their raw identifier displays as fallback.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("user deleted", "user_id", id)

	return nil
}

// GetUser retrieves an account by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns all accounts.
func (s *UserService) ListUsers(ctx context.Context) ([]*entities.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
