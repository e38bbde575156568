package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/kitchen/pkg/domain"
)

// ErrInvalidCatalog is returned when the recipe data violates a structural invariant.
// It is a configuration error: the catalog must not be used.
var ErrInvalidCatalog = errors.New("invalid recipe catalog")

// Catalog is an immutable, validated set of recipes. Safe for concurrent reads.
type Catalog struct {
	recipes []*domain.Recipe
	byID    map[string]*domain.Recipe
	bySlot  map[string]*domain.Recipe
}

// New validates the recipes and builds a catalog, preserving definition order.
func New(recipes []domain.Recipe) (*Catalog, error) {
	c := &Catalog{
		recipes: make([]*domain.Recipe, 0, len(recipes)),
		byID:    make(map[string]*domain.Recipe, len(recipes)),
		bySlot:  make(map[string]*domain.Recipe),
	}

	var errs []error
	for i := range recipes {
		r := cloneRecipe(recipes[i])

		if err := validateRecipe(r); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.byID[r.ID]; dup {
			errs = append(errs, fmt.Errorf("recipe %q: duplicate id", r.ID))
			continue
		}
		for _, slot := range r.Slots {
			key := normalizeSlot(slot)
			if key == "" {
				continue
			}
			if other, dup := c.bySlot[key]; dup && other.ID != r.ID {
				errs = append(errs, fmt.Errorf("recipe %q: slot %q already used by recipe %q", r.ID, slot, other.ID))
				continue
			}
			c.bySlot[key] = r
		}

		c.byID[r.ID] = r
		c.recipes = append(c.recipes, r)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return c, nil
}

// FindBySlot returns the recipe whose slot set contains the spoken value.
func (c *Catalog) FindBySlot(slot string) (*domain.Recipe, bool) {
	r, ok := c.bySlot[normalizeSlot(slot)]
	return r, ok
}

// Get returns a recipe by ID.
func (c *Catalog) Get(id string) (*domain.Recipe, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// Titles returns recipe titles in definition order.
func (c *Catalog) Titles() []string {
	out := make([]string, len(c.recipes))
	for i, r := range c.recipes {
		out[i] = r.Title
	}
	return out
}

// Recipes returns all recipes in definition order.
func (c *Catalog) Recipes() []*domain.Recipe {
	out := make([]*domain.Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Len returns the number of recipes.
func (c *Catalog) Len() int {
	return len(c.recipes)
}

func validateRecipe(r *domain.Recipe) error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("recipe with empty id")
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("recipe %q: empty title", r.ID)
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("recipe %q: no steps", r.ID)
	}

	// Steps are sorted by cloneRecipe; numbering must run 1..N.
	for i, s := range r.Steps {
		if i > 0 && s.Number == r.Steps[i-1].Number {
			return fmt.Errorf("recipe %q: duplicate step %d", r.ID, s.Number)
		}
		if s.Number != i+1 {
			if i == 0 {
				return fmt.Errorf("recipe %q: missing step 1", r.ID)
			}
			return fmt.Errorf("recipe %q: step %d follows step %d", r.ID, s.Number, i)
		}
		if s.Complete && i != len(r.Steps)-1 {
			return fmt.Errorf("recipe %q: complete marker on step %d is not the last step", r.ID, s.Number)
		}
	}
	return nil
}

func cloneRecipe(src domain.Recipe) *domain.Recipe {
	r := src
	r.Slots = append([]string(nil), src.Slots...)
	r.Steps = append([]domain.Step(nil), src.Steps...)
	sort.SliceStable(r.Steps, func(i, j int) bool { return r.Steps[i].Number < r.Steps[j].Number })
	return &r
}

func normalizeSlot(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
