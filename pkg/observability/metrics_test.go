package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/kitchen/internal/logging"
	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/aretw0/kitchen/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	h := m.Hooks()
	ctx := context.Background()

	h.OnTurn(ctx, &domain.TurnEvent{Intent: domain.IntentCookSomething, Duration: 20 * time.Millisecond})
	h.OnTurn(ctx, &domain.TurnEvent{Intent: domain.IntentNextStep, Failed: true})
	h.OnTransition(ctx, &domain.TransitionEvent{
		Intent: domain.IntentCookSomething, From: domain.StateStart, To: domain.StateRecipe, RecipeID: "yogurt", Step: 1,
	})
	h.OnTransition(ctx, &domain.TransitionEvent{Intent: domain.IntentNextStep, From: domain.StateRecipe, To: domain.StateRecipe})
	h.OnDeviceWrite(ctx, &domain.DeviceEvent{Desired: &domain.DesiredState{Mode: "yogurt"}})
	h.OnDeviceWrite(ctx, &domain.DeviceEvent{Desired: domain.IdleDesired(), IsError: true})
	h.OnTransportFailure(ctx, &domain.FailureEvent{Operation: "set_desired", Err: errors.New("boom")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("cookSomethingIntent", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("nextStepIntent", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecipesStarted.WithLabelValues("yogurt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("RECIPE", "RECIPE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeviceWrites.WithLabelValues("yogurt", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeviceWrites.WithLabelValues("measure", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransportFailures.WithLabelValues("set_desired")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TurnDuration))
}

func TestNewMetrics_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)
	assert.Panics(t, func() { observability.NewMetrics(reg) })
}

func TestCombine(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{OnTurn: func(context.Context, *domain.TurnEvent) { order = append(order, "a") }}
	b := domain.LifecycleHooks{
		OnTurn:       func(context.Context, *domain.TurnEvent) { order = append(order, "b") },
		OnTransition: func(context.Context, *domain.TransitionEvent) { order = append(order, "b-transition") },
	}

	h := observability.Combine(a, domain.LifecycleHooks{}, b)
	h.OnTurn(context.Background(), &domain.TurnEvent{})
	h.OnTransition(context.Background(), &domain.TransitionEvent{})

	assert.Equal(t, []string{"a", "b", "b-transition"}, order)
	assert.Nil(t, h.OnDeviceWrite)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	h := observability.LoggingHooks(logging.NewWithWriter(&buf, slog.LevelDebug))

	h.OnTransportFailure(context.Background(), &domain.FailureEvent{
		EventBase: domain.EventBase{UserID: "alice"},
		Operation: "get_reported",
		Err:       errors.New("timeout"),
	})

	out := buf.String()
	assert.Contains(t, out, "transport_failure")
	assert.Contains(t, out, "user_id=alice")
	assert.Contains(t, out, "err=timeout")
}
