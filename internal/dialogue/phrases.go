package dialogue

import (
	"math/rand"
	"strings"
)

// Phrases are the response pools the machine picks from.
// The spoken recipe list replaces the first %s of an Options entry, or is
// appended when the entry has none.
type Phrases struct {
	Welcome  []string
	Options  []string
	Reprompt []string
	Goodbye  []string
}

// DefaultPhrases returns the stock English phrasing.
func DefaultPhrases() Phrases {
	return Phrases{
		Welcome: []string{
			"Welcome, are we cooking today?",
			"Hello, what would you like to cook?",
		},
		Options: []string{
			"You can make %s.",
			"You can cook a recipe, the choices are %s.",
		},
		Reprompt: []string{
			"What can I help you with?",
			"What would you like to do?",
		},
		Goodbye: []string{
			"Goodbye!",
		},
	}
}

// Picker returns an index in [0, n). n is always positive.
type Picker func(n int) int

// RandomPicker picks uniformly.
func RandomPicker(n int) int {
	return rand.Intn(n)
}

func (m *Machine) pick(pool []string) string {
	switch len(pool) {
	case 0:
		return ""
	case 1:
		return pool[0]
	}
	i := m.picker(len(pool))
	if i < 0 || i >= len(pool) {
		i = 0
	}
	return pool[i]
}

func (m *Machine) options() string {
	list := SpokenList(m.recipes.Titles())
	phrase := m.pick(m.phrases.Options)
	if !strings.Contains(phrase, "%s") {
		return strings.TrimSpace(phrase + " " + list)
	}
	return strings.Replace(phrase, "%s", list, 1)
}

// SpokenList joins items the way they are read aloud: "a, b or c".
func SpokenList(items []string) string {
	switch len(items) {
	case 0:
		return "nothing yet"
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}
