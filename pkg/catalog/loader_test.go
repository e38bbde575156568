package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/kitchen/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipesJSON = `[
  {
    "id": "yogurt",
    "title": "Yogurt",
    "slots": ["yogurt"],
    "speak": "Let's make yogurt.",
    "steps": [
      {"step": 1, "speak": "Heat", "display": "Heat milk", "summary": "Heating", "alarm_low": 110},
      {"step": 2, "speak": "Cool", "display": "Cool milk", "summary": "Cooling", "alarm_high": null, "timer": 30},
      {"step": 3, "speak": "Done", "recipe": "complete"}
    ]
  }
]`

const recipesYAML = `
- id: ricotta
  title: Ricotta
  slots: [ricotta, ricotta cheese]
  speak: Let's make ricotta.
  steps:
    - step: 1
      speak: Heat
      alarm_high: 90
    - step: 2
      speak: Rest
      timer: 600
`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_JSON(t *testing.T) {
	c, err := catalog.Load(writeFile(t, "recipes.json", recipesJSON))
	require.NoError(t, err)

	r, ok := c.FindBySlot("yogurt")
	require.True(t, ok)
	assert.Equal(t, "Let's make yogurt.", r.Intro)
	require.Len(t, r.Steps, 3)

	first := r.Steps[0]
	require.NotNil(t, first.AlarmLow)
	assert.Equal(t, 110.0, *first.AlarmLow)
	assert.Nil(t, first.AlarmHigh)
	assert.Equal(t, "Heating", first.Summary)

	require.NotNil(t, r.Steps[1].TimerSeconds)
	assert.Equal(t, 30.0, *r.Steps[1].TimerSeconds)
	assert.True(t, r.Steps[2].Complete, "legacy recipe: complete marker is honoured")
}

func TestLoad_YAML(t *testing.T) {
	c, err := catalog.Load(writeFile(t, "recipes.yaml", recipesYAML))
	require.NoError(t, err)

	r, ok := c.FindBySlot("ricotta cheese")
	require.True(t, ok)
	require.NotNil(t, r.Steps[0].AlarmHigh)
	assert.Equal(t, 90.0, *r.Steps[0].AlarmHigh)
	assert.False(t, r.Steps[1].Complete)
}

func TestLoad_Errors(t *testing.T) {
	_, err := catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = catalog.Load(writeFile(t, "broken.json", "{not json"))
	assert.Error(t, err)

	_, err = catalog.Load(writeFile(t, "gap.yaml", `
- id: a
  title: A
  slots: [a]
  steps:
    - step: 2
      speak: x
`))
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func TestDefault(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"Yogurt", "Ricotta Cheese"}, c.Titles())

	r, ok := c.FindBySlot("ricotta")
	require.True(t, ok)
	assert.Equal(t, "ricotta", r.ID)
}
