package dialogue

import (
	"github.com/aretw0/kitchen/pkg/domain"
)

var unhandledRule = Rule{Name: "start.unhandled", Handle: handleUnhandled, NeedsDevice: true}

func buildTable() map[domain.DialogueState]map[domain.Intent]Rule {
	status := Rule{Name: "status", Handle: handleStatus, NeedsDevice: true, NeedsReport: true}
	cook := Rule{Name: "cook", Handle: handleCook, NeedsDevice: true}
	goodbye := Rule{Name: "goodbye", Handle: handleGoodbye, NeedsDevice: true}
	stop := Rule{Name: "stop", Handle: handleStop, NeedsDevice: true}

	return map[domain.DialogueState]map[domain.Intent]Rule{
		AnyState: {
			domain.IntentSessionEnded: {Name: "session_ended", Handle: handleSessionEnded},
		},
		domain.StateStart: {
			domain.IntentLaunch:         {Name: "start.welcome", Handle: handleWelcome, NeedsDevice: true},
			domain.IntentCookSomething:  cook,
			domain.IntentGetStatus:      {Name: "start.status", Handle: handleStartStatus, NeedsDevice: true, NeedsReport: true},
			domain.IntentNextStep:       {Name: "start.next", Handle: handleNotInRecipe, NeedsDevice: true},
			domain.IntentCancelRecipe:   stop,
			domain.IntentStop:           stop,
			domain.IntentCancel:         goodbye,
			domain.IntentHelp:           {Name: "start.help", Handle: handleHelp, NeedsDevice: true},
			domain.IntentRecipeOptions:  {Name: "start.options", Handle: handleOptions, NeedsDevice: true},
			domain.IntentEnableSimulate: {Name: "start.simulate", Handle: handleSimulate},
		},
		domain.StateRecipe: {
			domain.IntentLaunch:        status,
			domain.IntentGetStatus:     status,
			domain.IntentNextStep:      {Name: "recipe.next", Handle: handleNext, NeedsDevice: true},
			domain.IntentCancelRecipe:  {Name: "recipe.cancel", Handle: handleCancel, NeedsDevice: true},
			domain.IntentCookSomething: cook,
			domain.IntentStop:          goodbye,
			domain.IntentCancel:        goodbye,
			domain.IntentNo:            goodbye,
			domain.IntentHelp:          {Name: "recipe.help", Handle: handleRecipeHelp, NeedsDevice: true},
		},
	}
}

func handleSessionEnded(m *Machine, s *domain.Session, _ Input) (Outcome, error) {
	out := m.goodbye(s)
	out.SkipSave = true
	return out, nil
}

func handleWelcome(m *Machine, s *domain.Session, _ Input) (Outcome, error) {
	return m.ask(s, m.pick(m.phrases.Welcome)), nil
}

func handleGoodbye(m *Machine, s *domain.Session, _ Input) (Outcome, error) {
	return m.goodbye(s), nil
}

func handleUnhandled(m *Machine, s *domain.Session, _ Input) (Outcome, error) {
	return m.ask(s, "Sorry, I didn't understand, can you try again please"), nil
}

func handleNotInRecipe(m *Machine, s *domain.Session, _ Input) (Outcome, error) {
	return m.ask(s, "You're not in a recipe right now. What would you like to cook?"), nil
}

func handleHelp(m *Machine, s *domain.Session, _ Input) (Outcome, error) {
	return m.ask(s, "You can say cook a specific recipe, ask for a list of recipes, or just get the thermometer status. "+
		"When you're cooking something, you can go to the next step, get the status, or cancel the recipe."), nil
}

func handleRecipeHelp(m *Machine, s *domain.Session, _ Input) (Outcome, error) {
	return m.ask(s, "While you're cooking something, you can go to the next step, get the status, "+
		"or to stop cooking, say 'cancel the recipe'."), nil
}

func handleOptions(m *Machine, s *domain.Session, _ Input) (Outcome, error) {
	return m.ask(s, m.options()), nil
}

func handleCook(m *Machine, s *domain.Session, in Input) (Outcome, error) {
	if in.Slot == "" && !s.Cooking() {
		return Outcome{
			Session: s,
			Response: domain.Response{
				Spoken:     "I can make " + SpokenList(m.recipes.Titles()) + ". Which would you like?",
				Prompt:     "Please say that again?",
				ElicitSlot: domain.SlotFood,
			},
		}, nil
	}
	p, err := m.progression.StartRecipe(s, in.Slot, in.Now)
	if err != nil {
		return Outcome{}, err
	}
	return fromProgression(p), nil
}

func handleNext(m *Machine, s *domain.Session, in Input) (Outcome, error) {
	return fromProgression(m.progression.AdvanceStep(s, in.Now)), nil
}

func handleCancel(m *Machine, s *domain.Session, in Input) (Outcome, error) {
	return fromProgression(m.progression.CancelRecipe(s, in.Now)), nil
}

func handleStop(m *Machine, s *domain.Session, in Input) (Outcome, error) {
	return fromProgression(m.progression.Stop(s, in.Now)), nil
}

func handleStatus(m *Machine, s *domain.Session, in Input) (Outcome, error) {
	r := m.status.Interpret(in.Reported, s)
	if r.ForceStart {
		// An idle device runs no recipe. A leftover Active would make every
		// later cook refuse with "already cooking" until the user cancels.
		s.Clear(in.Now)
	}
	return Outcome{
		Session:  s,
		Response: domain.Response{Spoken: r.Spoken, Display: r.Display, Prompt: r.Prompt},
	}, nil
}

func handleStartStatus(m *Machine, s *domain.Session, in Input) (Outcome, error) {
	out, err := handleStatus(m, s, in)
	if err == nil {
		out.Session.State = domain.StateStart
	}
	return out, err
}

func handleSimulate(m *Machine, s *domain.Session, _ Input) (Outcome, error) {
	switch {
	case isSimulated(s.DeviceID):
		return Outcome{Session: s, Response: domain.Response{Spoken: "You already have a simulated thermometer."}}, nil
	case s.DeviceID != "":
		return Outcome{Session: s, Response: domain.Response{Spoken: "You don't need a simulation."}}, nil
	case !m.simulation:
		return Outcome{Session: s, Response: m.SimulationUnavailable()}, nil
	}
	return Outcome{
		Session: s,
		Effect:  EffectProvisionSimulation,
		Response: domain.Response{
			Spoken:  "I've set up a simulated thermometer for you.",
			Display: "Simulation Enabled",
			Prompt:  "What would you like to do?",
		},
	}, nil
}
