// Package emu adapts an external headless emulator process to the
// orchestration loop. The adapter owns the worker's lifetime and is the only
// component that mutates emulation state.
package emu

import (
	"context"
	"fmt"

	"github.com/aruzzi/gbpilot/pilot/action"
)

// Frame is one rendered screen. Pixels are packed RGBA (R in the high byte),
// row-major. Seq increases by one per emulation step.
type Frame struct {
	Seq    uint64
	Width  int
	Height int
	Pixels []uint32
}

// Emulator is the interface for all emulator adapters.
type Emulator interface {
	// Reset boots the ROM and returns the first rendered frame.
	Reset(ctx context.Context) (*Frame, error)
	// Step applies an action event (or a no-op) and advances emulation,
	// returning the new frame.
	Step(ev action.Event) (*Frame, error)
	// IsRunning reports whether the emulated process is still alive.
	IsRunning() bool
	Close() error
}

var _ Emulator = (*Pipe)(nil)

// InitError indicates the emulator could not be brought up: missing or
// invalid ROM, or a worker binary that failed to start. Always fatal.
type InitError struct {
	Path string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("emulator init failed (%s): %v", e.Path, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// RuntimeError indicates the emulator crashed or the worker protocol broke
// mid-run. Always fatal.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("emulator runtime failure: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }
