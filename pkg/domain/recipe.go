package domain

// Recipe is a cookable recipe with an ordered sequence of steps.
// Recipes are immutable after the catalog is built.
type Recipe struct {
	ID    string
	Title string

	// Slots are the alternate names a user may say to request this recipe
	// (e.g. "ricotta" and "ricotta cheese").
	Slots []string

	// Intro is spoken before the first step when the recipe starts.
	Intro string

	// Steps are ordered by Number, starting at 1 with no gaps.
	Steps []Step
}

// Step is a single recipe step and the thermometer configuration it needs.
type Step struct {
	Number  int
	Speak   string
	Display string
	Summary string

	// AlarmHigh fires when the temperature rises to or above it.
	AlarmHigh *float64
	// AlarmLow fires when the temperature drops to or below it.
	AlarmLow *float64
	// TimerSeconds is an optional countdown for the device.
	TimerSeconds *float64

	// Complete marks the terminal step. Reaching it finishes the recipe.
	Complete bool
}

// StepByNumber returns the step with the given number.
func (r *Recipe) StepByNumber(n int) (*Step, bool) {
	for i := range r.Steps {
		if r.Steps[i].Number == n {
			return &r.Steps[i], true
		}
	}
	return nil, false
}

// Desired builds the device configuration for this step.
func (s *Step) Desired(mode string) *DesiredState {
	return &DesiredState{
		AlarmHigh:    copyFloat(s.AlarmHigh),
		AlarmLow:     copyFloat(s.AlarmLow),
		TimerSeconds: copyFloat(s.TimerSeconds),
		Mode:         mode,
		Step:         s.Number,
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Float returns a pointer to v. Handy for building steps and snapshots.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
