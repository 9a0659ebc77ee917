package emu

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync/atomic"

	"github.com/aruzzi/gbpilot/pilot/action"
)

// Pipe drives an emulator worker as a child process, exchanging
// length-prefixed messages over its stdin/stdout. Stderr is passed through
// so worker logs land next to ours.
type Pipe struct {
	command string
	args    []string
	romPath string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser

	seq  uint64
	live atomic.Bool
}

// NewPipe prepares an adapter for the given worker command and ROM path.
// Nothing is started until Reset.
func NewPipe(command string, romPath string, args ...string) *Pipe {
	return &Pipe{
		command: command,
		args:    args,
		romPath: romPath,
	}
}

// Reset starts the worker if needed, boots the ROM and returns the first
// rendered frame.
func (p *Pipe) Reset(ctx context.Context) (*Frame, error) {
	if _, err := os.Stat(p.romPath); err != nil {
		return nil, &InitError{Path: p.romPath, Err: err}
	}

	if p.cmd == nil {
		if err := p.start(ctx); err != nil {
			return nil, &InitError{Path: p.command, Err: err}
		}
	}

	if err := writeMessage(p.stdin, encodeReset()); err != nil {
		p.live.Store(false)
		return nil, &InitError{Path: p.command, Err: err}
	}
	payload, err := readMessage(p.stdout)
	if err != nil {
		p.live.Store(false)
		return nil, &InitError{Path: p.command, Err: err}
	}

	p.seq = 0
	frame, err := decodeFrame(payload, p.seq)
	if err != nil {
		p.live.Store(false)
		return nil, &InitError{Path: p.command, Err: err}
	}
	return frame, nil
}

func (p *Pipe) start(ctx context.Context) error {
	args := append(append([]string{}, p.args...), p.romPath)
	cmd := exec.CommandContext(ctx, p.command, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		return fmt.Errorf("start worker: %w", err)
	}

	p.cmd = cmd
	p.stdin = stdin
	p.stdout = stdout
	p.live.Store(true)

	go func() {
		err := cmd.Wait()
		p.live.Store(false)
		if err != nil {
			slog.Warn("emulator worker exited", "error", err)
		}
	}()

	slog.Info("emulator worker started", "command", p.command, "rom", p.romPath)
	return nil
}

// Step applies the event and returns the next frame.
func (p *Pipe) Step(ev action.Event) (*Frame, error) {
	if !p.live.Load() {
		return nil, &RuntimeError{Err: fmt.Errorf("worker is not running")}
	}

	if err := writeMessage(p.stdin, encodeStep(ev)); err != nil {
		p.live.Store(false)
		return nil, &RuntimeError{Err: err}
	}
	payload, err := readMessage(p.stdout)
	if err != nil {
		p.live.Store(false)
		return nil, &RuntimeError{Err: err}
	}

	p.seq++
	frame, err := decodeFrame(payload, p.seq)
	if err != nil {
		p.live.Store(false)
		return nil, &RuntimeError{Err: err}
	}
	return frame, nil
}

// IsRunning reports whether the worker process is still alive.
func (p *Pipe) IsRunning() bool {
	return p.live.Load()
}

// Close asks the worker to quit and reaps the process. Safe to call after a
// failure.
func (p *Pipe) Close() error {
	if p.cmd == nil {
		return nil
	}
	if p.live.Load() {
		// Best effort: the worker quits on the message or on stdin EOF.
		_ = writeMessage(p.stdin, encodeQuit())
	}
	err := p.stdin.Close()
	if p.live.Load() && p.cmd.Process != nil {
		if killErr := p.cmd.Process.Kill(); killErr != nil && err == nil {
			err = killErr
		}
	}
	return err
}
