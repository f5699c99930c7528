// Package prompts holds the prompt templates, preset buttons and company
// knowledge base supplied to the conversation core.
package prompts

// PresetSOP is the preset that forces the knowledge base into the system prompt.
const PresetSOP = "sop"

// Preset is a named prompt template prepended to the user's text on send.
type Preset struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Prompt      string `json:"prompt"`
	Placeholder string `json:"placeholder"`
}

const (
	summarizeFeedbackPrompt = `You're a production assistant for Capture This, a video production company. Summarize the following Frame.io client feedback into:
- Top 3 edit notes
- Client tone
- Suggested next steps

Feedback:
`
	draftClientEmailPrompt = `Write a friendly, professional follow-up email to a client based on the following production notes. Keep it concise and action-oriented:

Notes:
`
	sopQueryPrompt = `Based on our company SOPs and best practices at Capture This video production company, answer this question in a concise, helpful tone:

Question: `
)

// DefaultPresets returns the preset buttons offered by the composer.
func DefaultPresets() []Preset {
	return []Preset{
		{
			ID:          "feedback",
			Label:       "Summarize Frame.io Comments",
			Prompt:      summarizeFeedbackPrompt,
			Placeholder: "Paste Frame.io feedback here...",
		},
		{
			ID:          "email",
			Label:       "Draft Client Email",
			Prompt:      draftClientEmailPrompt,
			Placeholder: "Describe the situation for the email...",
		},
		{
			ID:          PresetSOP,
			Label:       "Company SOPs",
			Prompt:      sopQueryPrompt,
			Placeholder: "Ask about our procedures, workflows, or policies...",
		},
	}
}

// Find returns the preset with the given id.
func Find(presets []Preset, id string) (Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}
