package capture

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aruzzi/gbpilot/pilot/emu"
)

func testFrame() *emu.Frame {
	f := &emu.Frame{Seq: 1, Width: 8, Height: 4, Pixels: make([]uint32, 32)}
	for i := range f.Pixels {
		// alternate white and dark grey, full alpha
		if i%2 == 0 {
			f.Pixels[i] = 0xFFFFFFFF
		} else {
			f.Pixels[i] = 0x4C4C4CFF
		}
	}
	return f
}

func TestEncodeIsDeterministic(t *testing.T) {
	frame := testFrame()

	first, err := Encode(frame, 2)
	require.NoError(t, err)
	second, err := Encode(frame, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same frame must produce identical bytes")
}

func TestEncodeScalesDimensions(t *testing.T) {
	frame := testFrame()

	data, err := Encode(frame, 3)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, frame.Width*3, img.Bounds().Dx())
	assert.Equal(t, frame.Height*3, img.Bounds().Dy())
}

func TestEncodePreservesPixels(t *testing.T) {
	frame := testFrame()

	data, err := Encode(frame, 1)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	assert.Equal(t, uint32(0xFFFF), g)
	assert.Equal(t, uint32(0xFFFF), b)

	r, _, _, _ = img.At(1, 0).RGBA()
	assert.Equal(t, uint32(0x4C4C), r)
}

func TestEncodeMalformedFrames(t *testing.T) {
	testCases := []struct {
		name  string
		frame *emu.Frame
	}{
		{"nil frame", nil},
		{"zero dimensions", &emu.Frame{Width: 0, Height: 0}},
		{"buffer too short", &emu.Frame{Width: 8, Height: 4, Pixels: make([]uint32, 7)}},
		{"buffer too long", &emu.Frame{Width: 2, Height: 2, Pixels: make([]uint32, 9)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Encode(tc.frame, 1)
			require.Error(t, err)
			var frameErr *FrameError
			assert.ErrorAs(t, err, &frameErr)
		})
	}
}
