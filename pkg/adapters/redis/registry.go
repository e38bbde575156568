package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/kitchen/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Registry implements ports.DeviceRegistry as a single Redis hash of user → device.
type Registry struct {
	client *backend.Client
	key    string
}

// NewRegistry creates a registry stored under prefix + "devices".
func NewRegistry(client *backend.Client, prefix string) *Registry {
	return &Registry{client: client, key: prefix + "devices"}
}

// Resolve returns the user's device or domain.ErrDeviceNotFound.
func (r *Registry) Resolve(ctx context.Context, userID string) (string, error) {
	id, err := r.client.HGet(ctx, r.key, userID).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", domain.ErrDeviceNotFound
		}
		return "", fmt.Errorf("failed to resolve device: %w: %w", domain.ErrTransport, err)
	}
	return id, nil
}

// Register associates a device with a user.
func (r *Registry) Register(ctx context.Context, userID, deviceID string) error {
	if err := r.client.HSet(ctx, r.key, userID, deviceID).Err(); err != nil {
		return fmt.Errorf("failed to register device: %w: %w", domain.ErrTransport, err)
	}
	return nil
}

// All returns every registered pair.
func (r *Registry) All(ctx context.Context) (map[string]string, error) {
	return r.client.HGetAll(ctx, r.key).Result()
}
