package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/aretw0/kitchen/pkg/ports"
)

// MockStore is a minimal map-backed SessionStore used to exercise the contract suite itself.
type MockStore struct {
	data map[string]*domain.Session
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Session),
	}
}

func (m *MockStore) Save(ctx context.Context, userID string, session *domain.Session) error {
	m.data[userID] = session.Clone()
	return nil
}

func (m *MockStore) Load(ctx context.Context, userID string) (*domain.Session, error) {
	session, ok := m.data[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, userID string) error {
	delete(m.data, userID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestSessionStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, NewMockStore())
}
