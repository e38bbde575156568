package memory

import (
	"context"
	"time"

	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/patrickmn/go-cache"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	cache *cache.Cache
}

// StoreOption configures the Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	ttl time.Duration
}

// WithTTL expires sessions that have not been saved for ttl.
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.ttl = ttl
	}
}

// NewStore creates a new in-memory store. Sessions never expire unless WithTTL is given.
func NewStore(opts ...StoreOption) *Store {
	cfg := storeConfig{ttl: cache.NoExpiration}
	for _, opt := range opts {
		opt(&cfg)
	}
	cleanup := time.Duration(0)
	if cfg.ttl > 0 {
		cleanup = cfg.ttl
	}
	return &Store{cache: cache.New(cfg.ttl, cleanup)}
}

// Save persists a copy of the session in memory.
func (s *Store) Save(ctx context.Context, userID string, session *domain.Session) error {
	s.cache.Set(userID, session.Clone(), cache.DefaultExpiration)
	return nil
}

// Load retrieves a copy of the session so callers cannot mutate the store by pointer.
func (s *Store) Load(ctx context.Context, userID string) (*domain.Session, error) {
	v, ok := s.cache.Get(userID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return v.(*domain.Session).Clone(), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, userID string) error {
	s.cache.Delete(userID)
	return nil
}

// List returns users with a live session.
func (s *Store) List(ctx context.Context) ([]string, error) {
	items := s.cache.Items()
	users := make([]string, 0, len(items))
	for id := range items {
		users = append(users, id)
	}
	return users, nil
}
