package observability

import (
	"context"

	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	Turns             *prometheus.CounterVec
	TurnDuration      prometheus.Histogram
	Transitions       *prometheus.CounterVec
	RecipesStarted    *prometheus.CounterVec
	DeviceWrites      *prometheus.CounterVec
	TransportFailures *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchen_turns_total",
				Help: "Total number of handled turns",
			},
			[]string{"intent", "outcome"},
		),
		TurnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kitchen_turn_duration_seconds",
				Help:    "Duration of a turn including device and store calls",
				Buckets: prometheus.DefBuckets,
			},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchen_transitions_total",
				Help: "Dialogue state transitions",
			},
			[]string{"from", "to"},
		),
		RecipesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchen_recipes_started_total",
				Help: "Recipes started, by recipe id",
			},
			[]string{"recipe"},
		),
		DeviceWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchen_device_writes_total",
				Help: "Desired-state writes, by mode and result",
			},
			[]string{"mode", "result"},
		),
		TransportFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchen_transport_failures_total",
				Help: "Collaborator failures, by operation",
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(m.Turns, m.TurnDuration, m.Transitions, m.RecipesStarted, m.DeviceWrites, m.TransportFailures)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(_ context.Context, e *domain.TurnEvent) {
			outcome := "ok"
			if e.Failed {
				outcome = "failed"
			}
			m.Turns.WithLabelValues(string(e.Intent), outcome).Inc()
			m.TurnDuration.Observe(e.Duration.Seconds())
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
			if e.Intent == domain.IntentCookSomething && e.From == domain.StateStart && e.To == domain.StateRecipe {
				m.RecipesStarted.WithLabelValues(e.RecipeID).Inc()
			}
		},
		OnDeviceWrite: func(_ context.Context, e *domain.DeviceEvent) {
			result := "ok"
			if e.IsError {
				result = "error"
			}
			mode := ""
			if e.Desired != nil {
				mode = e.Desired.Mode
			}
			m.DeviceWrites.WithLabelValues(mode, result).Inc()
		},
		OnTransportFailure: func(_ context.Context, e *domain.FailureEvent) {
			m.TransportFailures.WithLabelValues(e.Operation).Inc()
		},
	}
}
