package ports

import (
	"context"

	"github.com/aretw0/kitchen/pkg/domain"
)

// SessionStore defines the interface for persisting user sessions.
type SessionStore interface {
	// Save persists the session for a given user ID.
	Save(ctx context.Context, userID string, session *domain.Session) error

	// Load retrieves the session for a given user ID.
	// Returns domain.ErrSessionNotFound if the user has no stored session.
	Load(ctx context.Context, userID string) (*domain.Session, error)

	// Delete removes the session for a given user ID.
	Delete(ctx context.Context, userID string) error

	// List returns the IDs of all users with a stored session.
	List(ctx context.Context) ([]string, error)
}
