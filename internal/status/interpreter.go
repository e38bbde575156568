// Package status turns a reported device snapshot and the user's session into
// a human-facing thermometer status.
package status

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/kitchen/internal/logging"
	"github.com/aretw0/kitchen/pkg/domain"
)

// MaxPlausibleTemperature is the sensor sentinel: readings at or above it are not real.
const MaxPlausibleTemperature = 2000

const (
	deviceOffText = "Your device may be off"
	promptNext    = "What would you like to do next?"
)

// RecipeLookup resolves recipe ids. *catalog.Catalog satisfies it.
type RecipeLookup interface {
	Get(id string) (*domain.Recipe, bool)
}

// Report is the interpreted status.
type Report struct {
	Spoken  string
	Display string
	Prompt  string

	// ForceStart asks the caller to put the session back in START
	// because the device is not running a recipe.
	ForceStart bool

	// Reached is true when an alarm threshold has been crossed.
	Reached bool
}

// Interpreter builds status reports. It holds no per-turn state.
type Interpreter struct {
	recipes RecipeLookup
	logger  *slog.Logger
}

// Option configures the Interpreter.
type Option func(*Interpreter)

// WithLogger sets a logger for inconsistent-state warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// New creates an Interpreter resolving recipes through the given lookup.
func New(recipes RecipeLookup, opts ...Option) *Interpreter {
	i := &Interpreter{
		recipes: recipes,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret produces the status report for a reported snapshot.
func (i *Interpreter) Interpret(reported *domain.ReportedState, session *domain.Session) Report {
	if reported == nil || !plausible(reported.Temperature) {
		return Report{Spoken: deviceOffText}
	}

	temp := *reported.Temperature
	units := unitSymbol(reported.Units)
	spoken := fmt.Sprintf("The thermometer is reporting %s degrees. ", formatNumber(temp))

	if reported.Mode == "" || reported.Mode == domain.ModeMeasure {
		return Report{
			Spoken:     spoken,
			Display:    fmt.Sprintf("Thermometer:\n%s°%s", formatNumber(temp), units),
			ForceStart: true,
		}
	}

	recipe, step, ok := i.resolve(reported, session)
	if !ok {
		return Report{
			Spoken:  spoken,
			Display: fmt.Sprintf("Thermometer:\n%s°%s", formatNumber(temp), units),
			Prompt:  promptNext,
		}
	}

	reached, target, hasTarget := evaluate(reported, temp)

	spoken += fmt.Sprintf("You're making %s. ", recipe.Title)
	if reached != "" {
		spoken += fmt.Sprintf("You've %s and can go to the next recipe step. ", reached)
	}

	lines := []string{
		"Making " + recipe.Title,
		step.Summary,
		fmt.Sprintf("%s°%s", formatNumber(temp), units),
	}
	if hasTarget {
		t := fmt.Sprintf("Target %s°%s", formatNumber(target), units)
		if reached != "" {
			t += " REACHED"
		}
		lines = append(lines, t)
	}

	return Report{
		Spoken:  spoken,
		Display: strings.Join(lines, "\n"),
		Prompt:  promptNext,
		Reached: reached != "",
	}
}

// resolve finds the recipe and step the device is running. The session's
// active recipe wins; the device mode (a recipe id) is the fallback.
func (i *Interpreter) resolve(reported *domain.ReportedState, session *domain.Session) (*domain.Recipe, *domain.Step, bool) {
	recipeID := reported.Mode
	stepNumber := 0
	if session != nil && session.Active != nil {
		recipeID = session.Active.RecipeID
		stepNumber = session.Active.Step
	}
	if reported.Step != nil {
		stepNumber = *reported.Step
	}

	recipe, ok := i.recipes.Get(recipeID)
	if !ok {
		i.logger.Warn("status: recipe not in catalog", "recipe_id", recipeID, "mode", reported.Mode)
		return nil, nil, false
	}
	step, ok := recipe.StepByNumber(stepNumber)
	if !ok {
		i.logger.Warn("status: step not in recipe", "recipe_id", recipeID, "step", stepNumber)
		return nil, nil, false
	}
	return recipe, step, true
}

// evaluate checks the high alarm first; the low alarm is only considered
// when the high one has not been reached.
func evaluate(reported *domain.ReportedState, temp float64) (reached string, target float64, hasTarget bool) {
	if reported.AlarmHigh != nil && *reported.AlarmHigh != 0 {
		target, hasTarget = *reported.AlarmHigh, true
		if temp >= target {
			return fmt.Sprintf("exceeded %s degrees", formatNumber(target)), target, true
		}
	}
	if reported.AlarmLow != nil && *reported.AlarmLow != 0 {
		target, hasTarget = *reported.AlarmLow, true
		if temp <= target {
			return fmt.Sprintf("gone below %s degrees", formatNumber(target)), target, true
		}
	}
	return "", target, hasTarget
}

func plausible(t *float64) bool {
	return t != nil && *t != 0 && *t < MaxPlausibleTemperature
}

func unitSymbol(units string) string {
	if units == "fahrenheit" {
		return "F"
	}
	return "C"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
