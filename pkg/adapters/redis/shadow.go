package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/kitchen/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Shadow is a simulated device shadow kept in Redis so every replica sees
// the same virtual thermometers. Desired writes are applied to the reported
// document in an optimistic transaction.
// It implements ports.DeviceShadow and ports.DeviceSimulator.
type Shadow struct {
	client *backend.Client
	prefix string
}

// NewShadow creates a shadow stored under prefix + "shadow:<device>:{reported,desired}".
func NewShadow(client *backend.Client, prefix string) *Shadow {
	return &Shadow{client: client, prefix: prefix + "shadow:"}
}

func (s *Shadow) reportedKey(deviceID string) string {
	return s.prefix + deviceID + ":reported"
}

func (s *Shadow) desiredKey(deviceID string) string {
	return s.prefix + deviceID + ":desired"
}

// Provision creates the device with its first reported state.
func (s *Shadow) Provision(ctx context.Context, deviceID string, initial *domain.ReportedState) error {
	if initial == nil {
		initial = &domain.ReportedState{}
	}
	data, err := json.Marshal(initial)
	if err != nil {
		return fmt.Errorf("failed to marshal reported state: %w", err)
	}
	if err := s.client.Set(ctx, s.reportedKey(deviceID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to provision %q: %w: %w", deviceID, domain.ErrTransport, err)
	}
	return nil
}

// GetReported fetches the reported document.
func (s *Shadow) GetReported(ctx context.Context, deviceID string) (*domain.ReportedState, error) {
	return s.read(ctx, s.client, deviceID)
}

// SetDesired stores the desired document and merges it into the reported one.
func (s *Shadow) SetDesired(ctx context.Context, deviceID string, desired *domain.DesiredState) error {
	desiredData, err := json.Marshal(desired)
	if err != nil {
		return fmt.Errorf("failed to marshal desired state: %w", err)
	}
	return s.update(ctx, deviceID, func(tx backend.Pipeliner, r *domain.ReportedState) {
		r.Apply(desired)
		tx.Set(ctx, s.desiredKey(deviceID), desiredData, 0)
	})
}

// SetTemperature moves the simulated probe reading.
func (s *Shadow) SetTemperature(ctx context.Context, deviceID string, celsius float64) error {
	return s.update(ctx, deviceID, func(_ backend.Pipeliner, r *domain.ReportedState) {
		r.Temperature = domain.Float(celsius)
	})
}

// GetDesired returns the last desired document, or nil when none was written.
func (s *Shadow) GetDesired(ctx context.Context, deviceID string) (*domain.DesiredState, error) {
	data, err := s.client.Get(ctx, s.desiredKey(deviceID)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read desired state: %w: %w", domain.ErrTransport, err)
	}
	var d domain.DesiredState
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal desired state: %w", err)
	}
	return &d, nil
}

func (s *Shadow) update(ctx context.Context, deviceID string, mutate func(backend.Pipeliner, *domain.ReportedState)) error {
	key := s.reportedKey(deviceID)
	err := s.client.Watch(ctx, func(tx *backend.Tx) error {
		r, err := s.read(ctx, tx, deviceID)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
			mutate(pipe, r)
			data, err := json.Marshal(r)
			if err != nil {
				return err
			}
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			return err
		}
		return fmt.Errorf("failed to update shadow %q: %w: %w", deviceID, domain.ErrTransport, err)
	}
	return nil
}

// getter is satisfied by both *backend.Client and *backend.Tx.
type getter interface {
	Get(ctx context.Context, key string) *backend.StringCmd
}

func (s *Shadow) read(ctx context.Context, c getter, deviceID string) (*domain.ReportedState, error) {
	data, err := c.Get(ctx, s.reportedKey(deviceID)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, fmt.Errorf("shadow %q: %w", deviceID, domain.ErrDeviceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read shadow %q: %w: %w", deviceID, domain.ErrTransport, err)
	}
	var r domain.ReportedState
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reported state: %w", err)
	}
	return &r, nil
}
