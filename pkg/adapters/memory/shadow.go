package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/kitchen/pkg/domain"
)

// Shadow is a simulated device shadow: desired writes are applied to the
// reported state immediately, as an always-online device would.
// It implements ports.DeviceShadow and ports.DeviceSimulator.
type Shadow struct {
	mu       sync.RWMutex
	reported map[string]*domain.ReportedState
	desired  map[string]*domain.DesiredState
}

// NewShadow creates an empty shadow.
func NewShadow() *Shadow {
	return &Shadow{
		reported: make(map[string]*domain.ReportedState),
		desired:  make(map[string]*domain.DesiredState),
	}
}

// Provision creates the device with its first reported state.
func (s *Shadow) Provision(ctx context.Context, deviceID string, initial *domain.ReportedState) error {
	if initial == nil {
		initial = &domain.ReportedState{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reported[deviceID] = initial.Clone()
	return nil
}

// GetReported returns a copy of the reported state.
func (s *Shadow) GetReported(ctx context.Context, deviceID string) (*domain.ReportedState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reported[deviceID]
	if !ok {
		return nil, fmt.Errorf("shadow %q: %w", deviceID, domain.ErrDeviceNotFound)
	}
	return r.Clone(), nil
}

// SetDesired records the desired state and applies it to the reported state.
func (s *Shadow) SetDesired(ctx context.Context, deviceID string, desired *domain.DesiredState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reported[deviceID]
	if !ok {
		return fmt.Errorf("shadow %q: %w", deviceID, domain.ErrDeviceNotFound)
	}
	r.Apply(desired)
	s.desired[deviceID] = desired.Clone()
	return nil
}

// SetTemperature moves the simulated probe reading.
func (s *Shadow) SetTemperature(ctx context.Context, deviceID string, celsius float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reported[deviceID]
	if !ok {
		return fmt.Errorf("shadow %q: %w", deviceID, domain.ErrDeviceNotFound)
	}
	r.Temperature = domain.Float(celsius)
	return nil
}

// LastDesired returns the most recent desired write, or nil.
func (s *Shadow) LastDesired(deviceID string) *domain.DesiredState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.desired[deviceID].Clone()
}
