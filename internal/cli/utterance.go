package cli

import (
	"strings"

	"github.com/aretw0/kitchen/pkg/domain"
)

// Utterance is a typed chat line after classification.
type Utterance struct {
	Intent domain.Intent
	Slots  map[string]string
}

var knownIntents = map[string]domain.Intent{}

func init() {
	for _, in := range []domain.Intent{
		domain.IntentLaunch, domain.IntentCookSomething, domain.IntentGetStatus,
		domain.IntentNextStep, domain.IntentCancelRecipe, domain.IntentRecipeOptions,
		domain.IntentEnableSimulate, domain.IntentHelp, domain.IntentStop,
		domain.IntentCancel, domain.IntentNo, domain.IntentSessionEnded,
	} {
		knownIntents[strings.ToLower(string(in))] = in
	}
}

// phrases maps fixed lines to intents. Checked after the cook prefixes.
var phrases = map[string]domain.Intent{
	"hi":                  domain.IntentLaunch,
	"hello":               domain.IntentLaunch,
	"start":               domain.IntentLaunch,
	"open kitchen helper": domain.IntentLaunch,
	"status":              domain.IntentGetStatus,
	"temp":                domain.IntentGetStatus,
	"temperature":         domain.IntentGetStatus,
	"how is it going":     domain.IntentGetStatus,
	"next":                domain.IntentNextStep,
	"next step":           domain.IntentNextStep,
	"done":                domain.IntentNextStep,
	"ready":               domain.IntentNextStep,
	"cancel the recipe":   domain.IntentCancelRecipe,
	"cancel recipe":       domain.IntentCancelRecipe,
	"stop cooking":        domain.IntentCancelRecipe,
	"options":             domain.IntentRecipeOptions,
	"recipes":             domain.IntentRecipeOptions,
	"what can i make":     domain.IntentRecipeOptions,
	"simulate":            domain.IntentEnableSimulate,
	"enable simulation":   domain.IntentEnableSimulate,
	"help":                domain.IntentHelp,
	"stop":                domain.IntentStop,
	"cancel":              domain.IntentCancel,
	"no":                  domain.IntentNo,
	"nope":                domain.IntentNo,
}

var cookPrefixes = []string{"let's make ", "lets make ", "i want to make ", "cook ", "make "}

// Classify maps a typed line to an intent, standing in for the voice
// platform's language model. Raw intent names are accepted as-is.
// The second return is false when nothing matched.
func Classify(line string) (Utterance, bool) {
	text := strings.ToLower(strings.Join(strings.Fields(line), " "))
	text = strings.TrimRight(text, ".!?")
	if text == "" {
		return Utterance{}, false
	}

	if in, ok := knownIntents[text]; ok {
		return Utterance{Intent: in}, true
	}
	if text == "cook" || text == "cook something" {
		return Utterance{Intent: domain.IntentCookSomething}, true
	}
	for _, p := range cookPrefixes {
		if food, ok := strings.CutPrefix(text, p); ok && food != "" {
			return Utterance{
				Intent: domain.IntentCookSomething,
				Slots:  map[string]string{domain.SlotFood: food},
			}, true
		}
	}
	if in, ok := phrases[text]; ok {
		return Utterance{Intent: in}, true
	}
	return Utterance{}, false
}
