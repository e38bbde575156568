// Package dialogue is the conversational state machine. Every turn is routed
// through an explicit (state, intent) table to a pure handler that returns the
// next session, the device write (if any) and the response.
package dialogue

import (
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/kitchen/internal/logging"
	"github.com/aretw0/kitchen/internal/progression"
	"github.com/aretw0/kitchen/internal/status"
	"github.com/aretw0/kitchen/pkg/domain"
)

// AnyState keys rules that apply regardless of the dialogue state.
const AnyState domain.DialogueState = "*"

// SimulatedPrefix marks device ids created by the simulation flow.
const SimulatedPrefix = "SIM_"

// Catalog is the recipe view the machine needs. *catalog.Catalog satisfies it.
type Catalog interface {
	progression.Recipes
	Titles() []string
}

// Effect is a side effect the caller must perform before answering.
type Effect int

const (
	EffectNone Effect = iota
	// EffectProvisionSimulation asks the caller to create, register and seed a
	// simulated thermometer, then store its id on the session.
	EffectProvisionSimulation
)

// Input carries what the caller gathered before the transition.
type Input struct {
	Slot     string
	Reported *domain.ReportedState
	Now      time.Time
}

// Outcome is the result of a transition.
type Outcome struct {
	Session  *domain.Session
	Desired  *domain.DesiredState
	Response domain.Response
	Effect   Effect

	// SkipSave is set when the session must not be persisted.
	SkipSave bool
}

// Handler computes an outcome. It receives a private copy of the session.
type Handler func(m *Machine, s *domain.Session, in Input) (Outcome, error)

// Rule is a routed table entry.
type Rule struct {
	Name   string
	Handle Handler

	// NeedsDevice requires a resolved device id before the handler runs.
	NeedsDevice bool
	// NeedsReport requires the device's reported snapshot.
	NeedsReport bool
}

// Machine routes intents. It is immutable after New and safe for concurrent use.
type Machine struct {
	recipes     Catalog
	progression *progression.Engine
	status      *status.Interpreter
	table       map[domain.DialogueState]map[domain.Intent]Rule

	phrases    Phrases
	picker     Picker
	skillName  string
	projectURL string
	simulation bool
	logger     *slog.Logger
}

// Option configures the Machine.
type Option func(*Machine)

// WithLogger sets the logger shared with the progression engine and status interpreter.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithPhrases replaces the response pools.
func WithPhrases(p Phrases) Option {
	return func(m *Machine) {
		m.phrases = p
	}
}

// WithPicker replaces the random phrase picker.
func WithPicker(p Picker) Option {
	return func(m *Machine) {
		m.picker = p
	}
}

// WithSkillName sets the name used on cards and in the simulation hint.
func WithSkillName(name string) Option {
	return func(m *Machine) {
		m.skillName = name
	}
}

// WithProjectURL sets the link given to users without a device.
func WithProjectURL(url string) Option {
	return func(m *Machine) {
		m.projectURL = url
	}
}

// WithSimulation enables simulated thermometers.
func WithSimulation(enabled bool) Option {
	return func(m *Machine) {
		m.simulation = enabled
	}
}

// DefaultSkillName and DefaultProjectURL are used when not configured.
const (
	DefaultSkillName  = "Kitchen Helper"
	DefaultProjectURL = "https://git.io/vAIQI"
)

// New creates a Machine over the catalog.
func New(recipes Catalog, opts ...Option) *Machine {
	m := &Machine{
		recipes:    recipes,
		phrases:    DefaultPhrases(),
		picker:     RandomPicker,
		skillName:  DefaultSkillName,
		projectURL: DefaultProjectURL,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.progression = progression.New(recipes, progression.WithLogger(m.logger))
	m.status = status.New(recipes, status.WithLogger(m.logger))
	m.table = buildTable()
	return m
}

// Route returns the rule for an intent in the given state.
// Lookup order: AnyState, the state's own table, the START table, START's unhandled rule.
func (m *Machine) Route(state domain.DialogueState, intent domain.Intent) Rule {
	if r, ok := m.table[AnyState][intent]; ok {
		return r
	}
	if state == "" {
		state = domain.StateStart
	}
	if r, ok := m.table[state][intent]; ok {
		return r
	}
	if r, ok := m.table[domain.StateStart][intent]; ok {
		return r
	}
	return unhandledRule
}

// Transition applies an intent to a session. The input session is not mutated.
// An error means the catalog is unusable; every other condition yields a response.
func (m *Machine) Transition(session *domain.Session, intent domain.Intent, in Input) (Outcome, error) {
	from := session.Clone()
	rule := m.Route(from.DialogueState(), intent)

	out, err := rule.Handle(m, from.Clone(), in)
	if err != nil {
		return Outcome{}, err
	}
	if out.Session == nil {
		out.Session = from
	}

	// RECIPE without an active recipe cannot be carried into the next turn.
	if out.Session.DialogueState() == domain.StateRecipe && !out.Session.Cooking() {
		m.logger.Warn("dialogue: RECIPE state without active recipe, resetting to START",
			"rule", rule.Name, "intent", intent)
		out.Session.State = domain.StateStart
	}
	if out.Session.State == "" {
		out.Session.State = domain.StateStart
	}
	return out, nil
}

// Onboarding is the response for a user with no thermometer.
func (m *Machine) Onboarding() domain.Response {
	text := "This skill demonstrates controlling an IoT device by voice. " +
		"You can create your own device and skill with the instructions at the following link: " +
		m.projectURL
	if m.simulation {
		text += "\nIf you'd like to simulate the device, try 'ask " + m.skillName + " to simulate a thermometer'."
	}
	return domain.Response{
		Spoken: "You'll need to set up a thermometer first. " +
			"I've added a link to your app with information about creating your own thermometer.",
		Card: &domain.Card{Title: m.skillName, Text: text},
	}
}

// Apology is the single response for collaborator failures.
func (m *Machine) Apology() domain.Response {
	return domain.Response{Spoken: "Oh gosh, something went wrong!"}
}

// SimulationUnavailable is the response when provisioning fails or is disabled.
func (m *Machine) SimulationUnavailable() domain.Response {
	return domain.Response{Spoken: "Sorry, simulations are not available right now"}
}

// SkillName returns the configured skill name.
func (m *Machine) SkillName() string {
	return m.skillName
}

func (m *Machine) goodbye(s *domain.Session) Outcome {
	return Outcome{Session: s, Response: domain.Response{Spoken: m.pick(m.phrases.Goodbye)}}
}

func (m *Machine) ask(s *domain.Session, spoken string) Outcome {
	return Outcome{
		Session:  s,
		Response: domain.Response{Spoken: spoken, Prompt: m.pick(m.phrases.Reprompt)},
	}
}

func fromProgression(p progression.Outcome) Outcome {
	return Outcome{
		Session: p.Session,
		Desired: p.Desired,
		Response: domain.Response{
			Spoken:  p.Spoken,
			Display: p.Display,
			Prompt:  p.Prompt,
		},
	}
}

func isSimulated(deviceID string) bool {
	return strings.HasPrefix(deviceID, SimulatedPrefix)
}
