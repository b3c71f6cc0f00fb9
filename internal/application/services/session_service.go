package services

import (
	"context"

	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/domain/repositories"
)

// SessionService tracks the single active identity. At most one user is
// active at a time; activating a user replaces any previous session.
type SessionService struct {
	sessionRepo repositories.SessionRepository
	userRepo    repositories.UserRepository
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo repositories.SessionRepository, userRepo repositories.UserRepository) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

// Activate makes userID the active identity. The user must exist.
func (s *SessionService) Activate(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Set(ctx, user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

// Active returns the active user, or nil when no session is active.
func (s *SessionService) Active(ctx context.Context) (*entities.User, error) {
	userID, err := s.sessionRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}

	return s.userRepo.GetByID(ctx, userID)
}

// Clear removes the active session.
func (s *SessionService) Clear(ctx context.Context) error {
	return s.sessionRepo.Clear(ctx)
}
