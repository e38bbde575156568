package domain

// Intent is the name of a classified user request, as produced upstream.
type Intent string

// Intents understood by the dialogue engine. Names follow the voice
// platform's interaction model.
const (
	IntentLaunch         Intent = "LaunchRequest"
	IntentCookSomething  Intent = "cookSomethingIntent"
	IntentGetStatus      Intent = "getStatusIntent"
	IntentNextStep       Intent = "nextStepIntent"
	IntentCancelRecipe   Intent = "cancelRecipeIntent"
	IntentRecipeOptions  Intent = "recipeOptionsIntent"
	IntentEnableSimulate Intent = "enableSimulationIntent"
	IntentHelp           Intent = "AMAZON.HelpIntent"
	IntentStop           Intent = "AMAZON.StopIntent"
	IntentCancel         Intent = "AMAZON.CancelIntent"
	IntentNo             Intent = "AMAZON.NoIntent"
	IntentSessionEnded   Intent = "SessionEndedRequest"
)

// SlotFood is the only slot used: the food the user wants to cook.
const SlotFood = "foodToCook"
