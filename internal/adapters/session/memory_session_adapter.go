package session

import (
	"context"
	"sync"

	"github.com/loyaltyscan/backend/internal/domain/repositories"
)

// MemorySessionAdapter keeps the active-session pointer in process memory.
// It is the fallback when Redis is unavailable; the session then does not
// survive a restart.
type MemorySessionAdapter struct {
	mu     sync.Mutex
	userID string
}

// NewMemorySessionAdapter creates a new in-memory session adapter
func NewMemorySessionAdapter() repositories.SessionRepository {
	return &MemorySessionAdapter{}
}

// Set stores userID as the active session
func (a *MemorySessionAdapter) Set(ctx context.Context, userID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userID = userID
	return nil
}

// Get returns the active user ID, or an empty string when no session is set
func (a *MemorySessionAdapter) Get(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userID, nil
}

// Clear removes the active session
func (a *MemorySessionAdapter) Clear(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userID = ""
	return nil
}
