package emu

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/aruzzi/gbpilot/pilot/action"
)

// Wire protocol with the emulator worker: every message is a big-endian
// uint32 payload length followed by the payload. Requests start with an
// opcode byte; responses start with a status byte (0 = ok, anything else is
// an error followed by a UTF-8 message).

const (
	opReset byte = 0x01
	opStep  byte = 0x02
	opQuit  byte = 0x03

	statusOK byte = 0x00
)

// maxPayload caps a single message; a full RGBA Game Boy frame is ~92KiB so
// this leaves plenty of headroom for larger screens.
const maxPayload = 16 << 20

func writeMessage(w io.Writer, payload []byte) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(payload))); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readMessage(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	if length > maxPayload {
		return nil, fmt.Errorf("message length %d exceeds limit", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func encodeReset() []byte {
	return []byte{opReset}
}

func encodeQuit() []byte {
	return []byte{opQuit}
}

// encodeStep packs a step request: opcode, button, hold and delay frame
// counts as uint16.
func encodeStep(ev action.Event) []byte {
	buf := make([]byte, 6)
	buf[0] = opStep
	buf[1] = byte(ev.Button)
	binary.BigEndian.PutUint16(buf[2:4], uint16(ev.HoldFrames))
	binary.BigEndian.PutUint16(buf[4:6], uint16(ev.DelayFrames))
	return buf
}

// decodeFrame unpacks a frame response: status, width and height as uint16,
// then width*height packed RGBA pixels.
func decodeFrame(payload []byte, seq uint64) (*Frame, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("empty response")
	}
	if payload[0] != statusOK {
		return nil, fmt.Errorf("worker error: %s", string(payload[1:]))
	}
	body := payload[1:]
	if len(body) < 4 {
		return nil, fmt.Errorf("frame header truncated (%d bytes)", len(body))
	}
	width := int(binary.BigEndian.Uint16(body[0:2]))
	height := int(binary.BigEndian.Uint16(body[2:4]))
	pixelData := body[4:]
	if len(pixelData) != width*height*4 {
		return nil, fmt.Errorf("frame size mismatch: %dx%d with %d pixel bytes", width, height, len(pixelData))
	}

	pixels := make([]uint32, width*height)
	for i := range pixels {
		pixels[i] = binary.BigEndian.Uint32(pixelData[i*4 : i*4+4])
	}

	return &Frame{
		Seq:    seq,
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// encodeFrame packs a frame the way a worker would respond. Used by tests
// and by the reference worker implementation.
func encodeFrame(f *Frame) []byte {
	buf := make([]byte, 5+len(f.Pixels)*4)
	buf[0] = statusOK
	binary.BigEndian.PutUint16(buf[1:3], uint16(f.Width))
	binary.BigEndian.PutUint16(buf[3:5], uint16(f.Height))
	for i, px := range f.Pixels {
		binary.BigEndian.PutUint32(buf[5+i*4:9+i*4], px)
	}
	return buf
}
