package memory

import (
	"context"
	"sync"

	"github.com/aretw0/kitchen/pkg/domain"
)

// Registry implements ports.DeviceRegistry with a map.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]string
}

// NewRegistry creates a registry pre-populated with user → device pairs.
func NewRegistry(seed map[string]string) *Registry {
	r := &Registry{devices: make(map[string]string, len(seed))}
	for u, d := range seed {
		r.devices[u] = d
	}
	return r
}

// Resolve returns the user's device or domain.ErrDeviceNotFound.
func (r *Registry) Resolve(ctx context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.devices[userID]
	if !ok {
		return "", domain.ErrDeviceNotFound
	}
	return id, nil
}

// Register associates a device with a user.
func (r *Registry) Register(ctx context.Context, userID, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[userID] = deviceID
	return nil
}
