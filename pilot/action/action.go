// Package action defines the concrete input events the orchestrator can
// apply to the emulator.
package action

// Button identifies a Game Boy hardware control.
type Button int

const (
	ButtonNone Button = iota
	ButtonA
	ButtonB
	ButtonStart
	ButtonSelect
	DPadUp
	DPadDown
	DPadLeft
	DPadRight
)

var buttonNames = map[Button]string{
	ButtonNone:   "none",
	ButtonA:      "a",
	ButtonB:      "b",
	ButtonStart:  "start",
	ButtonSelect: "select",
	DPadUp:       "up",
	DPadDown:     "down",
	DPadLeft:     "left",
	DPadRight:    "right",
}

func (b Button) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return "unknown"
}

// Event is a single input command: hold a button for HoldFrames, then wait
// DelayFrames before the next command. The zero value is a no-op that still
// advances the emulator by one frame.
type Event struct {
	Button      Button
	HoldFrames  int
	DelayFrames int
}

// NoOp returns an event that advances emulation without touching the joypad.
func NoOp() Event {
	return Event{}
}

// IsNoOp reports whether the event presses no button.
func (e Event) IsNoOp() bool {
	return e.Button == ButtonNone
}
