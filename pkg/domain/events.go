package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurn             EventType = "turn"
	EventTransition       EventType = "transition"
	EventDeviceWrite      EventType = "device_write"
	EventTransportFailure EventType = "transport_failure"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id"`
}

// TurnEvent is emitted once per handled turn.
type TurnEvent struct {
	EventBase
	Intent   Intent        `json:"intent"`
	Duration time.Duration `json:"duration"`
	Failed   bool          `json:"failed,omitempty"`
}

// TransitionEvent records a dialogue state change (or a self-loop).
type TransitionEvent struct {
	EventBase
	Intent   Intent        `json:"intent"`
	From     DialogueState `json:"from"`
	To       DialogueState `json:"to"`
	RecipeID string        `json:"recipe_id,omitempty"`
	Step     int           `json:"step,omitempty"`
}

// DeviceEvent records a desired-state write.
type DeviceEvent struct {
	EventBase
	DeviceID string        `json:"device_id"`
	Desired  *DesiredState `json:"desired"`
	IsError  bool          `json:"is_error,omitempty"`
}

// FailureEvent records a collaborator failure.
type FailureEvent struct {
	EventBase
	Operation string `json:"operation"`
	Err       error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTurn             func(context.Context, *TurnEvent)
	OnTransition       func(context.Context, *TransitionEvent)
	OnDeviceWrite      func(context.Context, *DeviceEvent)
	OnTransportFailure func(context.Context, *FailureEvent)
}
