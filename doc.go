/*
Package kitchen is the dialogue core of a voice-driven kitchen thermometer.

A user speaks to a voice assistant; an upstream classifier turns the utterance
into an intent ("cookSomethingIntent", "nextStepIntent", ...) and slot values.
The Engine combines that intent with the user's stored session and the
thermometer's device shadow, then decides three things: what to say, how the
session changes and which alarm/timer configuration the thermometer should
adopt.

# Architecture

The core is pure and the collaborators are ports:

  - pkg/catalog holds the immutable recipe catalog.
  - internal/dialogue routes (state, intent) pairs through an explicit table.
  - internal/progression steps a session through a recipe.
  - internal/status reads a reported snapshot back to the user.
  - pkg/ports declares the session store, device registry and shadow.
  - pkg/adapters provides memory, Redis, HTTP shadow and HTTP server adapters.

# Usage

	recipes, _ := catalog.Default()
	shadow := memory.NewShadow()
	eng, err := kitchen.New(recipes, memory.NewStore(), memory.NewRegistry(nil), shadow,
		kitchen.WithSimulator(shadow),
	)
	if err != nil {
		log.Fatal(err)
	}

	res, _ := eng.HandleTurn(ctx, kitchen.TurnRequest{
		UserID: "user-1",
		Intent: domain.IntentCookSomething,
		Slots:  map[string]string{domain.SlotFood: "yogurt"},
	})
	fmt.Println(res.Response.Spoken)

Turns for the same user are serialized; a failed device write discards the
session change and answers with a single apology.
*/
package kitchen
