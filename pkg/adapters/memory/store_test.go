package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/kitchen/pkg/adapters/memory"
	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/aretw0/kitchen/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}

func TestMemoryStore_TTL(t *testing.T) {
	store := memory.NewStore(memory.WithTTL(50 * time.Millisecond))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "u1", domain.NewSession()))
	_, err := store.Load(ctx, "u1")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	_, err = store.Load(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	users, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRegistry(t *testing.T) {
	r := memory.NewRegistry(map[string]string{"alice": "thermo-a"})
	ctx := context.Background()

	id, err := r.Resolve(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "thermo-a", id)

	_, err = r.Resolve(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)

	require.NoError(t, r.Register(ctx, "bob", "SIM_123456789"))
	id, err = r.Resolve(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "SIM_123456789", id)
}
