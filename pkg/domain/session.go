package domain

import "time"

// DialogueState is the conversational mode of a user's session.
type DialogueState string

const (
	// StateStart is the idle mode: nothing is cooking.
	StateStart DialogueState = "START"
	// StateRecipe is the cooking mode: a recipe is in progress.
	StateRecipe DialogueState = "RECIPE"
)

// ActiveRecipe references the recipe a session is cooking.
// Recipe and step live together so a session can never hold one without the other.
type ActiveRecipe struct {
	RecipeID  string    `json:"recipe_id"`
	Step      int       `json:"step"`
	StartedAt time.Time `json:"started_at"`
}

// Session is the per-user record carried between turns.
type Session struct {
	// State is the dialogue state. An empty value is treated as StateStart.
	State DialogueState `json:"state"`

	// DeviceID caches the user's thermometer identifier once resolved.
	DeviceID string `json:"device_id,omitempty"`

	// Active is nil when no recipe is in progress.
	Active *ActiveRecipe `json:"active,omitempty"`

	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// NewSession returns the default record for a user seen for the first time.
func NewSession() *Session {
	return &Session{State: StateStart}
}

// DialogueState returns the effective dialogue state.
func (s *Session) DialogueState() DialogueState {
	if s.State == "" {
		return StateStart
	}
	return s.State
}

// Cooking reports whether a recipe is in progress.
func (s *Session) Cooking() bool {
	return s.Active != nil
}

// Clear drops the active recipe and returns the session to START.
// The device id is kept for reuse.
func (s *Session) Clear(now time.Time) {
	s.Active = nil
	s.State = StateStart
	s.LastUpdatedAt = now
}

// Clone returns a deep copy, so a turn can mutate freely and discard on failure.
func (s *Session) Clone() *Session {
	if s == nil {
		return NewSession()
	}
	c := *s
	if s.Active != nil {
		a := *s.Active
		c.Active = &a
	}
	return &c
}
