// Package backend renders the running game while the agent plays. Backends
// are display-only: all input to the emulator comes from the decision loop,
// the only human control is quitting.
package backend

import "github.com/aruzzi/gbpilot/pilot/emu"

// Status is the loop state a backend may show alongside the frame.
type Status struct {
	Step       uint64
	LastAction string
	Reasoning  string
}

// Backend is a display target for the orchestrator.
type Backend interface {
	// Init configures the backend. Required before Update.
	Init(config Config) error
	// Update renders the frame and processes any platform events.
	Update(frame *emu.Frame, status Status) error
	// Cleanup releases resources on shutdown.
	Cleanup() error
}

// Config holds backend configuration.
type Config struct {
	Title string

	// Headless snapshot settings
	SnapshotInterval int
	SnapshotDir      string
	ROMName          string

	// OnQuit is called when the backend requests shutdown (quit key,
	// terminal close).
	OnQuit func()
}
