package status_test

import (
	"testing"

	"github.com/aretw0/kitchen/internal/status"
	"github.com/aretw0/kitchen/pkg/catalog"
	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInterpreter(t *testing.T) *status.Interpreter {
	t.Helper()
	c, err := catalog.New([]domain.Recipe{{
		ID:    "yogurt",
		Title: "Yogurt",
		Slots: []string{"yogurt"},
		Steps: []domain.Step{
			{Number: 1, Summary: "Heating the milk", AlarmHigh: domain.Float(165)},
			{Number: 2, Summary: "Cooling the milk", AlarmLow: domain.Float(40)},
		},
	}})
	require.NoError(t, err)
	return status.New(c)
}

func cooking(step int) *domain.Session {
	return &domain.Session{
		State:  domain.StateRecipe,
		Active: &domain.ActiveRecipe{RecipeID: "yogurt", Step: step},
	}
}

func TestInterpret_DeviceOff(t *testing.T) {
	in := newInterpreter(t)

	for name, reported := range map[string]*domain.ReportedState{
		"nil snapshot":   nil,
		"no reading":     {Mode: "yogurt"},
		"zero":           {Mode: "yogurt", Temperature: domain.Float(0)},
		"zero measure":   {Mode: domain.ModeMeasure, Temperature: domain.Float(0)},
		"sentinel":       {Temperature: domain.Float(2000)},
		"above sentinel": {Mode: "yogurt", Temperature: domain.Float(4096)},
	} {
		t.Run(name, func(t *testing.T) {
			for _, session := range []*domain.Session{domain.NewSession(), cooking(1)} {
				r := in.Interpret(reported, session)
				assert.Equal(t, "Your device may be off", r.Spoken)
				assert.Empty(t, r.Prompt)
				assert.False(t, r.ForceStart)
			}
		})
	}
}

func TestInterpret_IdleDeviceForcesStart(t *testing.T) {
	in := newInterpreter(t)

	for _, mode := range []string{"", domain.ModeMeasure} {
		r := in.Interpret(&domain.ReportedState{Mode: mode, Temperature: domain.Float(21.5)}, cooking(1))
		assert.Equal(t, "The thermometer is reporting 21.5 degrees. ", r.Spoken)
		assert.Equal(t, "Thermometer:\n21.5°C", r.Display)
		assert.Empty(t, r.Prompt)
		assert.True(t, r.ForceStart)
	}
}

func TestInterpret_HighThresholdReached(t *testing.T) {
	in := newInterpreter(t)

	r := in.Interpret(&domain.ReportedState{
		Mode:        "yogurt",
		Temperature: domain.Float(170),
		AlarmHigh:   domain.Float(165),
	}, cooking(1))

	assert.True(t, r.Reached)
	assert.Contains(t, r.Spoken, "You're making Yogurt.")
	assert.Contains(t, r.Spoken, "exceeded 165")
	assert.Equal(t, "What would you like to do next?", r.Prompt)
	assert.Equal(t, "Making Yogurt\nHeating the milk\n170°C\nTarget 165°C REACHED", r.Display)
}

func TestInterpret_LowThresholdReached(t *testing.T) {
	in := newInterpreter(t)

	r := in.Interpret(&domain.ReportedState{
		Mode:        "yogurt",
		Temperature: domain.Float(35),
		AlarmLow:    domain.Float(40),
		Step:        domain.Int(2),
	}, cooking(1))

	assert.True(t, r.Reached)
	assert.Contains(t, r.Spoken, "gone below 40")
	assert.Contains(t, r.Display, "Cooling the milk", "reported step wins over the session step")
}

func TestInterpret_HighTakesPriority(t *testing.T) {
	in := newInterpreter(t)

	r := in.Interpret(&domain.ReportedState{
		Mode:        "yogurt",
		Temperature: domain.Float(50),
		AlarmHigh:   domain.Float(45),
		AlarmLow:    domain.Float(60),
	}, cooking(1))

	assert.Contains(t, r.Spoken, "exceeded 45")
	assert.NotContains(t, r.Spoken, "gone below")
}

func TestInterpret_NotReached(t *testing.T) {
	in := newInterpreter(t)

	r := in.Interpret(&domain.ReportedState{
		Mode:        "yogurt",
		Temperature: domain.Float(120),
		AlarmHigh:   domain.Float(165),
		Units:       "fahrenheit",
	}, cooking(1))

	assert.False(t, r.Reached)
	assert.NotContains(t, r.Spoken, "next recipe step")
	assert.Contains(t, r.Display, "Target 165°F")
	assert.NotContains(t, r.Display, "REACHED")
	assert.Equal(t, "What would you like to do next?", r.Prompt)
}

func TestInterpret_RecipeFromDeviceMode(t *testing.T) {
	in := newInterpreter(t)

	r := in.Interpret(&domain.ReportedState{
		Mode:        "yogurt",
		Temperature: domain.Float(30),
		Step:        domain.Int(2),
	}, domain.NewSession())

	assert.Contains(t, r.Spoken, "You're making Yogurt.")
	assert.Contains(t, r.Display, "Cooling the milk")
}

func TestInterpret_InconsistentStepReportsGenerically(t *testing.T) {
	in := newInterpreter(t)

	r := in.Interpret(&domain.ReportedState{
		Mode:        "yogurt",
		Temperature: domain.Float(30),
		Step:        domain.Int(9),
		AlarmLow:    domain.Float(40),
	}, cooking(1))

	assert.Equal(t, "The thermometer is reporting 30 degrees. ", r.Spoken)
	assert.NotContains(t, r.Display, "Making")
	assert.Equal(t, "What would you like to do next?", r.Prompt)
	assert.False(t, r.ForceStart)
}

func TestInterpret_UnknownRecipeMode(t *testing.T) {
	in := newInterpreter(t)

	r := in.Interpret(&domain.ReportedState{Mode: "bread", Temperature: domain.Float(30)}, domain.NewSession())
	assert.Equal(t, "The thermometer is reporting 30 degrees. ", r.Spoken)
	assert.NotEmpty(t, r.Prompt)
}
