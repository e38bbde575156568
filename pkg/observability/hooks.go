package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/kitchen/pkg/domain"
)

// LoggingHooks logs every lifecycle event. Turns and transitions go to Debug,
// failures to Warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			logger.DebugContext(ctx, "turn",
				"user_id", e.UserID,
				"intent", e.Intent,
				"duration", e.Duration,
				"failed", e.Failed,
			)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.DebugContext(ctx, "transition",
				"user_id", e.UserID,
				"from", e.From,
				"to", e.To,
				"recipe_id", e.RecipeID,
				"step", e.Step,
			)
		},
		OnDeviceWrite: func(ctx context.Context, e *domain.DeviceEvent) {
			logger.DebugContext(ctx, "device_write",
				"user_id", e.UserID,
				"device_id", e.DeviceID,
				"is_error", e.IsError,
			)
		},
		OnTransportFailure: func(ctx context.Context, e *domain.FailureEvent) {
			logger.WarnContext(ctx, "transport_failure",
				"user_id", e.UserID,
				"operation", e.Operation,
				"err", e.Err,
			)
		},
	}
}

// Combine fans each event out to every hook set, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, s := range sets {
		s := s
		if s.OnTurn != nil {
			prev := out.OnTurn
			out.OnTurn = func(ctx context.Context, e *domain.TurnEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				s.OnTurn(ctx, e)
			}
		}
		if s.OnTransition != nil {
			prev := out.OnTransition
			out.OnTransition = func(ctx context.Context, e *domain.TransitionEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				s.OnTransition(ctx, e)
			}
		}
		if s.OnDeviceWrite != nil {
			prev := out.OnDeviceWrite
			out.OnDeviceWrite = func(ctx context.Context, e *domain.DeviceEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				s.OnDeviceWrite(ctx, e)
			}
		}
		if s.OnTransportFailure != nil {
			prev := out.OnTransportFailure
			out.OnTransportFailure = func(ctx context.Context, e *domain.FailureEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				s.OnTransportFailure(ctx, e)
			}
		}
	}
	return out
}
