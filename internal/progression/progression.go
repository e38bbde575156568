// Package progression drives a session through a recipe's steps and derives
// the device configuration each step needs.
package progression

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/kitchen/internal/logging"
	"github.com/aretw0/kitchen/pkg/catalog"
	"github.com/aretw0/kitchen/pkg/domain"
)

const (
	textComplete     = "Your recipe is complete! Would you like to cook something else?"
	textCancelled    = "Stopping any active recipe now."
	textStopped      = "OK, goodbye."
	textNotCooking   = "I'm sorry, you're not cooking anything right now."
	promptWhatElse   = "What else can I help you with?"
	promptCookOther  = "Would you like to cook something else?"
	promptWhatToDo   = "What would you like to do?"
	displayCompleted = "Recipe complete"
)

// Recipes is the catalog view the engine needs. *catalog.Catalog satisfies it.
type Recipes interface {
	FindBySlot(slot string) (*domain.Recipe, bool)
	Get(id string) (*domain.Recipe, bool)
}

// Outcome is the result of a progression operation.
// Session is always a fresh copy; the input session is never mutated.
type Outcome struct {
	Session *domain.Session

	// Desired is nil when the device must not be written.
	Desired *domain.DesiredState

	Spoken  string
	Display string
	Prompt  string
}

// Engine applies recipe operations to sessions. It holds no per-user state.
type Engine struct {
	recipes Recipes
	logger  *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the logger used for recovered inconsistencies.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates a progression Engine over the given recipes.
func New(recipes Recipes, opts ...Option) *Engine {
	e := &Engine{
		recipes: recipes,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartRecipe begins the recipe named by slot at step 1.
// A session that is already cooking is left untouched.
func (e *Engine) StartRecipe(session *domain.Session, slot string, now time.Time) (Outcome, error) {
	s := session.Clone()

	if s.Cooking() {
		title := "something"
		if r, ok := e.recipes.Get(s.Active.RecipeID); ok {
			title = r.Title
		}
		return Outcome{
			Session: s,
			Spoken:  fmt.Sprintf("You're already cooking %s. To cook something else, just say 'cancel the recipe' first.", title),
			Prompt:  promptWhatToDo,
		}, nil
	}

	recipe, ok := e.recipes.FindBySlot(slot)
	if !ok {
		e.logger.Info("progression: unknown food requested", "slot", slot)
		s.State = domain.StateStart
		return Outcome{
			Session: s,
			Spoken:  fmt.Sprintf("I can't handle making %s yet, sorry.", slot),
			Prompt:  promptCookOther,
		}, nil
	}

	first, ok := recipe.StepByNumber(1)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: recipe %q has no step 1", catalog.ErrInvalidCatalog, recipe.ID)
	}

	s.State = domain.StateRecipe
	s.Active = &domain.ActiveRecipe{RecipeID: recipe.ID, Step: 1, StartedAt: now}
	s.LastUpdatedAt = now

	return Outcome{
		Session: s,
		Desired: first.Desired(recipe.ID),
		Spoken:  joinSpeech(recipe.Intro, first.Speak),
		Display: "Making " + recipe.Title + "\n" + first.Display,
	}, nil
}

// AdvanceStep moves to the next step or completes the recipe.
func (e *Engine) AdvanceStep(session *domain.Session, now time.Time) Outcome {
	s := session.Clone()

	if !s.Cooking() {
		if s.DialogueState() == domain.StateRecipe {
			e.logger.Warn("progression: session in RECIPE without an active recipe, resetting")
		}
		s.Clear(now)
		return Outcome{
			Session: s,
			Spoken:  textNotCooking,
			Prompt:  promptWhatElse,
		}
	}

	recipe, ok := e.recipes.Get(s.Active.RecipeID)
	if !ok {
		e.logger.Warn("progression: active recipe not in catalog", "recipe_id", s.Active.RecipeID)
		return e.complete(s, nil, now)
	}

	current, ok := recipe.StepByNumber(s.Active.Step)
	if !ok || current.Complete {
		return e.complete(s, nil, now)
	}

	next, ok := recipe.StepByNumber(current.Number + 1)
	if !ok {
		return e.complete(s, nil, now)
	}
	if next.Complete {
		return e.complete(s, next, now)
	}

	s.State = domain.StateRecipe
	s.Active.Step = next.Number
	s.LastUpdatedAt = now

	return Outcome{
		Session: s,
		Desired: next.Desired(recipe.ID),
		Spoken:  next.Speak,
		Display: next.Display,
	}
}

// CancelRecipe clears any active recipe and idles the device.
// Calling it on an idle session yields the same outcome.
func (e *Engine) CancelRecipe(session *domain.Session, now time.Time) Outcome {
	return e.clear(session, textCancelled, now)
}

// Stop is CancelRecipe with a farewell.
func (e *Engine) Stop(session *domain.Session, now time.Time) Outcome {
	return e.clear(session, textStopped, now)
}

func (e *Engine) clear(session *domain.Session, spoken string, now time.Time) Outcome {
	s := session.Clone()
	s.Clear(now)
	return Outcome{
		Session: s,
		Desired: domain.IdleDesired(),
		Spoken:  spoken,
	}
}

// complete finishes the recipe. A terminal step supplies its own wording.
func (e *Engine) complete(s *domain.Session, terminal *domain.Step, now time.Time) Outcome {
	s.Clear(now)
	out := Outcome{
		Session: s,
		Desired: domain.IdleDesired(),
		Spoken:  textComplete,
		Display: displayCompleted,
	}
	if terminal != nil {
		if terminal.Speak != "" {
			out.Spoken = terminal.Speak
		}
		if terminal.Display != "" {
			out.Display = terminal.Display
		}
	}
	return out
}

func joinSpeech(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
