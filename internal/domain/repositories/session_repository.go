package repositories

import (
	"context"
)

// SessionRepository stores the single active-session pointer: the user ID of
// the active identity, or nothing. There is at most one active identity at a
// time.
type SessionRepository interface {
	// Set records userID as the active identity
	Set(ctx context.Context, userID string) error

	// Get returns the active user ID, or "" when no session is active
	Get(ctx context.Context) (string, error)

	// Clear removes the active session pointer
	Clear(ctx context.Context) error
}
