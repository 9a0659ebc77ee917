// Package decision talks to the hosted vision-language model and turns its
// answers into structured decisions.
package decision

import (
	"encoding/json"
	"strings"
)

// Decision is the model's chosen next action. Action is a lowercase label
// ("up", "a", "wait", ...); ScreenText carries any dialogue text the model
// read off the screen.
type Decision struct {
	Action     string  `json:"action"`
	Reasoning  string  `json:"reasoning"`
	ScreenText string  `json:"screen_text,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Parse extracts a Decision from raw model output. Models wrap JSON in
// markdown fences often enough that we strip them first.
func Parse(raw string) (Decision, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var d Decision
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return Decision{}, &MalformedError{Reason: err.Error(), Raw: raw}
	}
	if d.Action == "" {
		return Decision{}, &MalformedError{Reason: "missing action field", Raw: raw}
	}
	d.Action = strings.ToLower(strings.TrimSpace(d.Action))
	return d, nil
}
