package emu

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aruzzi/gbpilot/pilot/action"
)

// fakeWorker answers protocol requests over in-memory pipes the way a real
// worker process would.
func fakeWorker(t *testing.T, in io.Reader, out io.Writer) {
	t.Helper()
	go func() {
		frame := &Frame{Width: 2, Height: 1, Pixels: []uint32{0xFFFFFFFF, 0x000000FF}}
		for {
			payload, err := readMessage(in)
			if err != nil {
				return
			}
			switch payload[0] {
			case opReset, opStep:
				if err := writeMessage(out, encodeFrame(frame)); err != nil {
					return
				}
			case opQuit:
				return
			}
		}
	}()
}

func newTestPipe(t *testing.T) *Pipe {
	t.Helper()

	romPath := filepath.Join(t.TempDir(), "game.gb")
	require.NoError(t, os.WriteFile(romPath, []byte{0x00}, 0644))

	toWorker, stdin := io.Pipe()
	stdout, fromWorker := io.Pipe()
	fakeWorker(t, toWorker, fromWorker)

	p := NewPipe("fake-worker", romPath)
	p.cmd = &exec.Cmd{} // already "started"
	p.stdin = stdin
	p.stdout = stdout
	p.live.Store(true)
	return p
}

func TestPipeResetReturnsFirstFrame(t *testing.T) {
	p := newTestPipe(t)

	frame, err := p.Reset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), frame.Seq)
	assert.Equal(t, 2, frame.Width)
	assert.Equal(t, 1, frame.Height)
}

func TestPipeStepIncrementsSequence(t *testing.T) {
	p := newTestPipe(t)

	_, err := p.Reset(context.Background())
	require.NoError(t, err)

	first, err := p.Step(action.Event{Button: action.ButtonA, HoldFrames: 10})
	require.NoError(t, err)
	second, err := p.Step(action.NoOp())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, uint64(2), second.Seq)
}

func TestPipeResetMissingROM(t *testing.T) {
	p := NewPipe("fake-worker", filepath.Join(t.TempDir(), "missing.gb"))

	_, err := p.Reset(context.Background())
	require.Error(t, err)
	var initErr *InitError
	assert.ErrorAs(t, err, &initErr)
	assert.False(t, p.IsRunning())
}

func TestPipeStepAfterWorkerDeath(t *testing.T) {
	p := newTestPipe(t)
	p.live.Store(false)

	_, err := p.Step(action.NoOp())
	require.Error(t, err)
	var runtimeErr *RuntimeError
	assert.ErrorAs(t, err, &runtimeErr)
}
