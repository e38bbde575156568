package ports

import (
	"context"

	"github.com/aretw0/kitchen/pkg/domain"
)

// DeviceRegistry maps users to their thermometer.
type DeviceRegistry interface {
	// Resolve returns the device ID for a user.
	// Returns domain.ErrDeviceNotFound if the user has no device.
	Resolve(ctx context.Context, userID string) (string, error)

	// Register associates a device with a user, replacing any previous one.
	Register(ctx context.Context, userID, deviceID string) error
}

// DeviceShadow is the transport to a device's synchronized state document.
type DeviceShadow interface {
	// GetReported fetches the latest reported snapshot.
	GetReported(ctx context.Context, deviceID string) (*domain.ReportedState, error)

	// SetDesired requests a configuration change.
	SetDesired(ctx context.Context, deviceID string, desired *domain.DesiredState) error
}

// DeviceSimulator creates virtual thermometers for users without hardware.
type DeviceSimulator interface {
	// Provision creates the device and seeds its first reported state.
	Provision(ctx context.Context, deviceID string, initial *domain.ReportedState) error
}
