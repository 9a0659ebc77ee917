package decision

import "strings"

const promptHeader = `You are playing a Game Boy game. Analyze the screen and choose the single
best next input.

Available actions:
- up, down, left, right: move
- a: attack / confirm / advance dialogue
- b: use item / cancel
- start: pause menu
- select: item menu
- wait: do nothing this turn

If dialogue text is visible on screen you MUST choose "a" to advance it, and
copy the visible text into "screen_text".

Respond with ONLY a JSON object:
{"action": "<label>", "reasoning": "<one sentence>", "screen_text": "<text on screen or empty>", "confidence": <0.0-1.0>}`

// BuildPrompt assembles the text sent alongside the screen capture.
// historyContext is the recent-decision block from the history package and
// may be empty on the first iteration.
func BuildPrompt(historyContext string) string {
	if historyContext == "" {
		return promptHeader
	}
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\nRecent actions, newest first:\n")
	b.WriteString(historyContext)
	return b.String()
}
