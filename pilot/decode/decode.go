// Package decode maps remote decisions to concrete input events. The
// mapping is closed and deterministic: every recognized label yields exactly
// one event, anything else is an UnknownActionError.
package decode

import (
	"fmt"

	"github.com/aruzzi/gbpilot/pilot/action"
	"github.com/aruzzi/gbpilot/pilot/decision"
)

// Hold durations in frames (60fps). Movement holds longer than button taps
// so a single decision produces a visible result.
const (
	moveHoldFrames   = 20
	buttonHoldFrames = 10
	waitFrames       = 30
	interActionDelay = 5
)

// UnknownActionError indicates a label outside the closed action set. The
// orchestrator substitutes a no-op for the iteration.
type UnknownActionError struct {
	Label string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action label %q", e.Label)
}

var eventTable = map[string]action.Event{
	"up":     {Button: action.DPadUp, HoldFrames: moveHoldFrames, DelayFrames: interActionDelay},
	"down":   {Button: action.DPadDown, HoldFrames: moveHoldFrames, DelayFrames: interActionDelay},
	"left":   {Button: action.DPadLeft, HoldFrames: moveHoldFrames, DelayFrames: interActionDelay},
	"right":  {Button: action.DPadRight, HoldFrames: moveHoldFrames, DelayFrames: interActionDelay},
	"a":      {Button: action.ButtonA, HoldFrames: buttonHoldFrames, DelayFrames: interActionDelay},
	"b":      {Button: action.ButtonB, HoldFrames: buttonHoldFrames, DelayFrames: interActionDelay},
	"start":  {Button: action.ButtonStart, HoldFrames: buttonHoldFrames, DelayFrames: interActionDelay},
	"select": {Button: action.ButtonSelect, HoldFrames: buttonHoldFrames, DelayFrames: interActionDelay},
	"wait":   {Button: action.ButtonNone, HoldFrames: 0, DelayFrames: waitFrames},
}

// Decode resolves a decision's action label to an input event.
func Decode(d decision.Decision) (action.Event, error) {
	ev, ok := eventTable[d.Action]
	if !ok {
		return action.NoOp(), &UnknownActionError{Label: d.Action}
	}
	return ev, nil
}
