package domain

// Response is the structured reply for a turn. Rendering into a specific
// output protocol is the presentation layer's job.
type Response struct {
	// Spoken is always present.
	Spoken string `json:"spoken"`

	// Prompt, when set, keeps the conversation open and is used as the reprompt.
	Prompt string `json:"prompt,omitempty"`

	// Display is shown only on devices with a screen. Lines are separated by "\n".
	Display string `json:"display,omitempty"`

	// Card is an optional companion-app card (used for onboarding).
	Card *Card `json:"card,omitempty"`

	// ElicitSlot names a slot the user is asked to fill.
	ElicitSlot string `json:"elicit_slot,omitempty"`
}

// Card is a simple title/text card.
type Card struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// EndsSession reports whether the conversation closes after this response.
func (r Response) EndsSession() bool {
	return r.Prompt == "" && r.ElicitSlot == ""
}
