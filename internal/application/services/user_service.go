package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/domain/repositories"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
)

// UserService handles user registration. Users are immutable after
// creation, so there is no update path.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterUserInput carries the fields of a registration request.
type RegisterUserInput struct {
	Email       string
	DisplayName string
	Role        string
}

// Register creates a new user with a fixed role.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (*entities.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, apperrors.NewValidationError("email is required")
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return nil, apperrors.NewValidationError("display name is required")
	}

	role, err := entities.ParseRole(input.Role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("a user with this email already exists")
	}

	user := &entities.User{
		ID:          uuid.New().String(),
		Email:       email,
		DisplayName: displayName,
		Role:        role,
		CreatedAt:   time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
