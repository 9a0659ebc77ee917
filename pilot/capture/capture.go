// Package capture turns emulator frames into PNG payloads for the remote
// model.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/aruzzi/gbpilot/pilot/emu"
)

// Packed RGBA layout of frame pixels.
const (
	rShift    = 24
	gShift    = 16
	bShift    = 8
	colorMask = 0xFF
)

// FrameError indicates a frame whose buffer does not match its declared
// dimensions. The emulator state is suspect at that point, so callers treat
// this as fatal.
type FrameError struct {
	Reason string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("malformed frame: %s", e.Reason)
}

// Encode converts a frame into PNG bytes, upscaling by the given integer
// factor first. Small native screens (160x144) read poorly for the remote
// model, so a 2x scale is the usual choice. The transform is deterministic:
// identical input yields identical output bytes.
func Encode(frame *emu.Frame, scale int) ([]byte, error) {
	if frame == nil {
		return nil, &FrameError{Reason: "nil frame"}
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, &FrameError{Reason: fmt.Sprintf("invalid dimensions %dx%d", frame.Width, frame.Height)}
	}
	if len(frame.Pixels) != frame.Width*frame.Height {
		return nil, &FrameError{Reason: fmt.Sprintf("%d pixels for %dx%d buffer", len(frame.Pixels), frame.Width, frame.Height)}
	}
	if scale < 1 {
		scale = 1
	}

	img := ToImage(frame)
	if scale > 1 {
		scaled := image.NewRGBA(image.Rect(0, 0, frame.Width*scale, frame.Height*scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = scaled
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// ToImage converts the packed pixel buffer to an image.RGBA without scaling.
func ToImage(frame *emu.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for i, px := range frame.Pixels {
		idx := i * 4
		img.Pix[idx] = byte((px >> rShift) & colorMask)
		img.Pix[idx+1] = byte((px >> gShift) & colorMask)
		img.Pix[idx+2] = byte((px >> bShift) & colorMask)
		img.Pix[idx+3] = byte(px & colorMask)
	}
	return img
}
