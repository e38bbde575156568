package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	userID := "contract-test-user-" + time.Now().Format("20060102150405")
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Save and Load", func(t *testing.T) {
		session := &domain.Session{
			State:    domain.StateRecipe,
			DeviceID: "thermo-1",
			Active: &domain.ActiveRecipe{
				RecipeID:  "yogurt",
				Step:      2,
				StartedAt: started,
			},
			LastUpdatedAt: started.Add(time.Minute),
		}

		err := store.Save(ctx, userID, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, userID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.StateRecipe, loaded.State)
		assert.Equal(t, "thermo-1", loaded.DeviceID)
		require.NotNil(t, loaded.Active)
		assert.Equal(t, "yogurt", loaded.Active.RecipeID)
		assert.Equal(t, 2, loaded.Active.Step)
		assert.True(t, started.Equal(loaded.Active.StartedAt))
	})

	t.Run("Loaded session is a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, userID)
		require.NoError(t, err)
		loaded.Active = nil
		loaded.State = domain.StateStart

		again, err := store.Load(ctx, userID)
		require.NoError(t, err)
		assert.NotNil(t, again.Active, "mutating a loaded session must not change the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, userID, domain.NewSession())
		require.NoError(t, err)

		err = store.Delete(ctx, userID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := userID + "-1"
		id2 := userID + "-2"
		_ = store.Save(ctx, id1, domain.NewSession())
		_ = store.Save(ctx, id2, domain.NewSession())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		users, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, users, id1)
		assert.Contains(t, users, id2)
	})
}
