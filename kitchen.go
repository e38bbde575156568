package kitchen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/kitchen/internal/dialogue"
	"github.com/aretw0/kitchen/internal/logging"
	"github.com/aretw0/kitchen/pkg/catalog"
	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/aretw0/kitchen/pkg/ports"
	"github.com/aretw0/kitchen/pkg/session"
	"github.com/google/uuid"
)

// ErrInvalidRequest is returned by HandleTurn for requests that cannot be routed.
var ErrInvalidRequest = errors.New("invalid turn request")

// SimulatedStartTemperature is the first reading of a new simulated thermometer.
const SimulatedStartTemperature = 15.0

// TurnRequest is one classified user utterance.
type TurnRequest struct {
	UserID string            `json:"user_id"`
	Intent domain.Intent     `json:"intent"`
	Slots  map[string]string `json:"slots,omitempty"`
}

// TurnResult is the outcome of a turn.
type TurnResult struct {
	// Session is the session after the turn. On failure it is the session as
	// it was before the turn (nil if it could not be loaded).
	Session  *domain.Session      `json:"session,omitempty"`
	Response domain.Response      `json:"response"`
	Desired  *domain.DesiredState `json:"desired,omitempty"`

	// Failed is set when a collaborator failed and the apology was returned.
	Failed bool `json:"failed,omitempty"`
}

// Engine is the high-level entry point. It runs one turn at a time per user:
// load, resolve the device, read it, transition, write it, save, respond.
type Engine struct {
	machine   *dialogue.Machine
	sessions  *session.Manager
	registry  ports.DeviceRegistry
	shadow    ports.DeviceShadow
	simulator ports.DeviceSimulator

	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	clock       func() time.Time
	newDeviceID func() string

	dialogueOpts []dialogue.Option
	sessionOpts  []session.Option
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithLocker serializes turns across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, session.WithLocker(locker))
	}
}

// WithSimulator enables the simulated-thermometer intent.
func WithSimulator(sim ports.DeviceSimulator) Option {
	return func(e *Engine) {
		e.simulator = sim
	}
}

// WithDeviceIDGenerator replaces the simulated device id generator.
func WithDeviceIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		e.newDeviceID = gen
	}
}

// WithSkillName sets the name shown on cards.
func WithSkillName(name string) Option {
	return func(e *Engine) {
		e.dialogueOpts = append(e.dialogueOpts, dialogue.WithSkillName(name))
	}
}

// WithProjectURL sets the onboarding link.
func WithProjectURL(url string) Option {
	return func(e *Engine) {
		e.dialogueOpts = append(e.dialogueOpts, dialogue.WithProjectURL(url))
	}
}

// WithPhrases replaces the response pools.
func WithPhrases(p dialogue.Phrases) Option {
	return func(e *Engine) {
		e.dialogueOpts = append(e.dialogueOpts, dialogue.WithPhrases(p))
	}
}

// WithPicker makes phrase selection deterministic.
func WithPicker(p dialogue.Picker) Option {
	return func(e *Engine) {
		e.dialogueOpts = append(e.dialogueOpts, dialogue.WithPicker(p))
	}
}

// New wires an Engine over its collaborators.
func New(recipes *catalog.Catalog, store ports.SessionStore, registry ports.DeviceRegistry, shadow ports.DeviceShadow, opts ...Option) (*Engine, error) {
	switch {
	case recipes == nil:
		return nil, fmt.Errorf("recipe catalog is required")
	case store == nil:
		return nil, fmt.Errorf("session store is required")
	case registry == nil:
		return nil, fmt.Errorf("device registry is required")
	case shadow == nil:
		return nil, fmt.Errorf("device shadow is required")
	}

	e := &Engine{
		registry:    registry,
		shadow:      shadow,
		logger:      logging.NewNop(),
		clock:       time.Now,
		newDeviceID: SimulatedDeviceID,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.sessions = session.NewManager(store, append(e.sessionOpts, session.WithLogger(e.logger))...)
	mopts := append([]dialogue.Option{
		dialogue.WithLogger(e.logger),
		dialogue.WithSimulation(e.simulator != nil),
	}, e.dialogueOpts...)
	e.machine = dialogue.New(recipes, mopts...)

	return e, nil
}

// Sessions exposes the session manager for administrative commands.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// SimulatedDeviceID returns "SIM_" followed by nine random characters.
func SimulatedDeviceID() string {
	return dialogue.SimulatedPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// HandleTurn runs one turn. The error return is reserved for malformed
// requests; collaborator failures produce the apology with Failed set.
func (e *Engine) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidRequest)
	}
	if strings.TrimSpace(string(req.Intent)) == "" {
		return nil, fmt.Errorf("%w: empty intent", ErrInvalidRequest)
	}

	started := e.clock()
	var result *TurnResult
	err := e.sessions.WithLock(ctx, req.UserID, func(ctx context.Context) error {
		result = e.turn(ctx, req)
		return nil
	})
	if err != nil {
		e.fail(ctx, req.UserID, "lock", err)
		result = &TurnResult{Response: e.machine.Apology(), Failed: true}
	}

	if e.hooks.OnTurn != nil {
		e.hooks.OnTurn(ctx, &domain.TurnEvent{
			EventBase: e.event(domain.EventTurn, req.UserID),
			Intent:    req.Intent,
			Duration:  e.clock().Sub(started),
			Failed:    result.Failed,
		})
	}
	return result, nil
}

// turn runs with the user's lock held.
func (e *Engine) turn(ctx context.Context, req TurnRequest) *TurnResult {
	log := e.logger.With("user_id", req.UserID, "intent", req.Intent)

	store := e.sessions.Store()
	before, err := e.sessions.LoadOrNewLocked(ctx, req.UserID)
	if err != nil {
		e.fail(ctx, req.UserID, "load_session", err)
		return e.apology(nil)
	}

	current := before.Clone()
	rule := e.machine.Route(current.DialogueState(), req.Intent)
	log.Debug("turn routed", "rule", rule.Name, "state", current.DialogueState())

	if current.DeviceID == "" && req.Intent != domain.IntentSessionEnded {
		id, err := e.registry.Resolve(ctx, req.UserID)
		switch {
		case err == nil:
			current.DeviceID = id
		case errors.Is(err, domain.ErrDeviceNotFound):
			if rule.NeedsDevice {
				log.Info("no device registered, sending onboarding card")
				return &TurnResult{Session: before, Response: e.machine.Onboarding()}
			}
		default:
			e.fail(ctx, req.UserID, "resolve_device", err)
			return e.apology(before)
		}
	}

	in := dialogue.Input{Slot: req.Slots[domain.SlotFood], Now: e.clock()}
	if rule.NeedsReport {
		reported, err := e.shadow.GetReported(ctx, current.DeviceID)
		if err != nil {
			e.fail(ctx, req.UserID, "get_reported", err)
			return e.apology(before)
		}
		in.Reported = reported
	}

	out, err := e.machine.Transition(current, req.Intent, in)
	if err != nil {
		log.Error("transition failed", "rule", rule.Name, "err", err)
		return e.apology(before)
	}

	if out.Effect == dialogue.EffectProvisionSimulation {
		id, err := e.provision(ctx, req.UserID)
		if err != nil {
			e.fail(ctx, req.UserID, "provision_simulation", err)
			return &TurnResult{Session: before, Response: e.machine.SimulationUnavailable(), Failed: true}
		}
		out.Session.DeviceID = id
	}

	if out.Desired != nil {
		err := e.shadow.SetDesired(ctx, out.Session.DeviceID, out.Desired)
		if e.hooks.OnDeviceWrite != nil {
			e.hooks.OnDeviceWrite(ctx, &domain.DeviceEvent{
				EventBase: e.event(domain.EventDeviceWrite, req.UserID),
				DeviceID:  out.Session.DeviceID,
				Desired:   out.Desired,
				IsError:   err != nil,
			})
		}
		if err != nil {
			// The mutated session is discarded; the stored one stays authoritative.
			e.fail(ctx, req.UserID, "set_desired", err)
			return e.apology(before)
		}
	}

	if !out.SkipSave {
		if err := store.Save(ctx, req.UserID, out.Session); err != nil {
			e.fail(ctx, req.UserID, "save_session", err)
			return e.apology(before)
		}
	}

	if e.hooks.OnTransition != nil {
		ev := &domain.TransitionEvent{
			EventBase: e.event(domain.EventTransition, req.UserID),
			Intent:    req.Intent,
			From:      before.DialogueState(),
			To:        out.Session.DialogueState(),
		}
		if out.Session.Active != nil {
			ev.RecipeID = out.Session.Active.RecipeID
			ev.Step = out.Session.Active.Step
		}
		e.hooks.OnTransition(ctx, ev)
	}

	log.Debug("turn complete", "rule", rule.Name, "state", out.Session.DialogueState(), "wrote_device", out.Desired != nil)
	return &TurnResult{Session: out.Session, Response: out.Response, Desired: out.Desired}
}

func (e *Engine) provision(ctx context.Context, userID string) (string, error) {
	id := e.newDeviceID()
	if err := e.simulator.Provision(ctx, id, &domain.ReportedState{Temperature: domain.Float(SimulatedStartTemperature)}); err != nil {
		return "", fmt.Errorf("provision %q: %w", id, err)
	}
	if err := e.registry.Register(ctx, userID, id); err != nil {
		return "", fmt.Errorf("register %q: %w", id, err)
	}
	e.logger.Info("simulated thermometer provisioned", "user_id", userID, "device_id", id)
	return id, nil
}

func (e *Engine) apology(s *domain.Session) *TurnResult {
	return &TurnResult{Session: s, Response: e.machine.Apology(), Failed: true}
}

func (e *Engine) fail(ctx context.Context, userID, op string, err error) {
	e.logger.Error("collaborator failure", "user_id", userID, "op", op, "err", err)
	if e.hooks.OnTransportFailure != nil {
		e.hooks.OnTransportFailure(ctx, &domain.FailureEvent{
			EventBase: e.event(domain.EventTransportFailure, userID),
			Operation: op,
			Err:       err,
		})
	}
}

func (e *Engine) event(t domain.EventType, userID string) domain.EventBase {
	return domain.EventBase{Timestamp: e.clock(), Type: t, UserID: userID}
}
