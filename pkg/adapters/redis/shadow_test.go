package redis_test

import (
	"context"
	"testing"

	"github.com/aretw0/kitchen/pkg/adapters/redis"
	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisShadow(t *testing.T) {
	mr, client := newClient(t)
	s := redis.NewShadow(client, redis.DefaultPrefix)
	ctx := context.Background()

	_, err := s.GetReported(ctx, "SIM_1")
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
	assert.ErrorIs(t, s.SetDesired(ctx, "SIM_1", domain.IdleDesired()), domain.ErrDeviceNotFound)

	require.NoError(t, s.Provision(ctx, "SIM_1", &domain.ReportedState{Temperature: domain.Float(15)}))
	assert.True(t, mr.Exists("kitchen:shadow:SIM_1:reported"))

	desired := &domain.DesiredState{AlarmLow: domain.Float(45), Mode: "yogurt", Step: 2}
	require.NoError(t, s.SetDesired(ctx, "SIM_1", desired))

	r, err := s.GetReported(ctx, "SIM_1")
	require.NoError(t, err)
	assert.Equal(t, "yogurt", r.Mode)
	assert.Equal(t, 15.0, *r.Temperature)
	assert.Equal(t, 45.0, *r.AlarmLow)
	assert.Nil(t, r.AlarmHigh)
	assert.Equal(t, 2, *r.Step)

	got, err := s.GetDesired(ctx, "SIM_1")
	require.NoError(t, err)
	assert.Equal(t, desired, got)

	require.NoError(t, s.SetTemperature(ctx, "SIM_1", 44.5))
	r, err = s.GetReported(ctx, "SIM_1")
	require.NoError(t, err)
	assert.Equal(t, 44.5, *r.Temperature)
	assert.Equal(t, "yogurt", r.Mode)
}

func TestRedisShadow_NoDesiredYet(t *testing.T) {
	_, client := newClient(t)
	s := redis.NewShadow(client, redis.DefaultPrefix)

	d, err := s.GetDesired(context.Background(), "SIM_1")
	require.NoError(t, err)
	assert.Nil(t, d)
}
