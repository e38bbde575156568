package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed recipes.yaml
var defaultRecipes []byte

// recipeRecord is the on-disk shape of a recipe.
// It uses "mapstructure" tags so YAML and JSON documents decode through the same path.
type recipeRecord struct {
	ID    string       `mapstructure:"id"`
	Title string       `mapstructure:"title"`
	Slots []string     `mapstructure:"slots"`
	Speak string       `mapstructure:"speak"`
	Steps []stepRecord `mapstructure:"steps"`
}

type stepRecord struct {
	Step      int      `mapstructure:"step"`
	Speak     string   `mapstructure:"speak"`
	Display   string   `mapstructure:"display"`
	Summary   string   `mapstructure:"summary"`
	AlarmHigh *float64 `mapstructure:"alarm_high"`
	AlarmLow  *float64 `mapstructure:"alarm_low"`
	Timer     *float64 `mapstructure:"timer"`
	Complete  bool     `mapstructure:"complete"`
	// Recipe is the legacy terminal marker: `recipe: complete`.
	Recipe string `mapstructure:"recipe"`
}

// Load reads a catalog file (YAML or JSON, by extension) and validates it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}

	format := "yaml"
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = "json"
	}
	return Parse(data, format)
}

// Parse decodes raw catalog data in the given format ("json" or "yaml").
func Parse(data []byte, format string) (*Catalog, error) {
	var raw []map[string]any
	switch format {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse recipes json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse recipes yaml: %w", err)
		}
	}

	var records []recipeRecord
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &records,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	recipes := make([]domain.Recipe, 0, len(records))
	for _, rec := range records {
		recipes = append(recipes, rec.toDomain())
	}
	return New(recipes)
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultRecipes, "yaml")
}

func (r recipeRecord) toDomain() domain.Recipe {
	steps := make([]domain.Step, 0, len(r.Steps))
	for _, s := range r.Steps {
		steps = append(steps, domain.Step{
			Number:       s.Step,
			Speak:        s.Speak,
			Display:      s.Display,
			Summary:      s.Summary,
			AlarmHigh:    s.AlarmHigh,
			AlarmLow:     s.AlarmLow,
			TimerSeconds: s.Timer,
			Complete:     s.Complete || s.Recipe == "complete",
		})
	}
	return domain.Recipe{
		ID:    r.ID,
		Title: r.Title,
		Slots: r.Slots,
		Intro: r.Speak,
		Steps: steps,
	}
}
