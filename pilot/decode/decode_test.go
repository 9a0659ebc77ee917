package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aruzzi/gbpilot/pilot/action"
	"github.com/aruzzi/gbpilot/pilot/decision"
)

func TestDecodeRecognizedLabels(t *testing.T) {
	testCases := []struct {
		label  string
		button action.Button
	}{
		{"up", action.DPadUp},
		{"down", action.DPadDown},
		{"left", action.DPadLeft},
		{"right", action.DPadRight},
		{"a", action.ButtonA},
		{"b", action.ButtonB},
		{"start", action.ButtonStart},
		{"select", action.ButtonSelect},
		{"wait", action.ButtonNone},
	}

	for _, tc := range testCases {
		t.Run(tc.label, func(t *testing.T) {
			ev, err := Decode(decision.Decision{Action: tc.label})
			require.NoError(t, err)
			assert.Equal(t, tc.button, ev.Button)
			if tc.label != "wait" {
				assert.Greater(t, ev.HoldFrames, 0, "real buttons are held for at least one frame")
			}
		})
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	first, err := Decode(decision.Decision{Action: "left"})
	require.NoError(t, err)
	second, err := Decode(decision.Decision{Action: "left"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeUnknownLabel(t *testing.T) {
	for _, label := range []string{"", "jump", "A", "press_a"} {
		ev, err := Decode(decision.Decision{Action: label})
		require.Error(t, err, "label %q", label)
		var unknown *UnknownActionError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, label, unknown.Label)
		assert.True(t, ev.IsNoOp())
	}
}
