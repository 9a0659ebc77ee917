// Package pilot drives the play loop: capture the screen, ask the remote
// model for a decision, decode it into a button event, apply it to the
// emulator, repeat.
package pilot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aruzzi/gbpilot/pilot/action"
	"github.com/aruzzi/gbpilot/pilot/backend"
	"github.com/aruzzi/gbpilot/pilot/capture"
	"github.com/aruzzi/gbpilot/pilot/config"
	"github.com/aruzzi/gbpilot/pilot/decision"
	"github.com/aruzzi/gbpilot/pilot/decode"
	"github.com/aruzzi/gbpilot/pilot/emu"
	"github.com/aruzzi/gbpilot/pilot/history"
)

// State of the orchestration loop.
type State int

const (
	Running State = iota
	Stopped
)

// Decider is the remote decision dependency. *decision.Client satisfies it;
// tests substitute stubs.
type Decider interface {
	Decide(ctx context.Context, imagePNG []byte, historyContext string) (decision.Decision, error)
}

// Orchestrator owns one play session. It is the sole point that classifies
// errors as fatal (stop, non-zero exit) or recoverable (no-op iteration).
type Orchestrator struct {
	cfg     config.Config
	emu     emu.Emulator
	decider Decider
	display backend.Backend
	log     *history.Log

	state State
	steps uint64
}

// New wires an orchestrator from its collaborators. Previous history is
// loaded from the configured path when present.
func New(cfg config.Config, emulator emu.Emulator, decider Decider, display backend.Backend) *Orchestrator {
	hist := history.New(cfg.HistorySize)
	if err := hist.Load(cfg.HistoryPath()); err != nil {
		slog.Warn("could not load history, starting fresh", "error", err)
	}

	return &Orchestrator{
		cfg:     cfg,
		emu:     emulator,
		decider: decider,
		display: display,
		log:     hist,
		state:   Stopped,
	}
}

// Steps returns how many emulation steps were applied.
func (o *Orchestrator) Steps() uint64 {
	return o.steps
}

// Stop requests a clean stop at the next iteration boundary.
func (o *Orchestrator) Stop() {
	o.state = Stopped
}

// Run executes the loop until the emulator dies, the step budget is spent,
// the context is cancelled, or a fatal error occurs. A nil return is a clean
// stop.
func (o *Orchestrator) Run(ctx context.Context) error {
	frame, err := o.emu.Reset(ctx)
	if err != nil {
		return fmt.Errorf("reset emulator: %w", err)
	}

	romName := strings.TrimSuffix(filepath.Base(o.cfg.ROMPath), filepath.Ext(o.cfg.ROMPath))
	if err := o.display.Init(backend.Config{
		Title:            "gbpilot: " + romName,
		SnapshotInterval: o.cfg.SnapshotInterval,
		SnapshotDir:      o.cfg.SnapshotDir,
		ROMName:          romName,
		OnQuit:           o.Stop,
	}); err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer o.display.Cleanup()
	defer o.saveHistory()

	slog.Info("play loop starting", "rom", o.cfg.ROMPath, "max_steps", o.cfg.MaxSteps)
	o.state = Running

	for o.state == Running {
		if ctx.Err() != nil {
			slog.Info("interrupted, stopping")
			break
		}
		if !o.emu.IsRunning() {
			slog.Info("emulator stopped running")
			break
		}
		if o.cfg.MaxSteps > 0 && o.steps >= uint64(o.cfg.MaxSteps) {
			slog.Info("step budget reached", "steps", o.steps)
			break
		}

		ev, rec, err := o.decide(ctx, frame)
		if err != nil {
			return err
		}

		next, err := o.emu.Step(ev)
		if err != nil {
			return fmt.Errorf("apply action: %w", err)
		}
		frame = next
		o.steps++

		rec.Step = o.steps
		o.log.Add(rec)

		slog.Info("iteration", "step", o.steps, "action", rec.Action, "applied", rec.Applied, "reasoning", rec.Reasoning)

		if err := o.display.Update(frame, backend.Status{
			Step:       o.steps,
			LastAction: rec.Action,
			Reasoning:  rec.Reasoning,
		}); err != nil {
			return fmt.Errorf("update display: %w", err)
		}
	}

	slog.Info("play loop finished", "steps", o.steps, "decisions", len(o.log.Records()))
	return nil
}

// decide runs capture → remote decision → local decode for one frame. The
// returned error is always fatal; recoverable failures come back as a no-op
// event with Applied false.
func (o *Orchestrator) decide(ctx context.Context, frame *emu.Frame) (action.Event, history.Record, error) {
	rec := history.Record{Action: "noop", At: time.Now()}

	img, err := capture.Encode(frame, o.cfg.ImageScale)
	if err != nil {
		// A malformed frame means emulator corruption.
		return action.NoOp(), rec, fmt.Errorf("capture frame %d: %w", frame.Seq, err)
	}

	d, err := o.decider.Decide(ctx, img, o.log.Context())
	if err != nil {
		var authErr *decision.AuthError
		if errors.As(err, &authErr) {
			return action.NoOp(), rec, fmt.Errorf("remote decision: %w", err)
		}
		slog.Warn("skipping iteration", "step", o.steps+1, "error", err)
		return action.NoOp(), rec, nil
	}

	rec.Action = d.Action
	rec.Reasoning = d.Reasoning
	rec.ScreenText = d.ScreenText

	ev, err := decode.Decode(d)
	if err != nil {
		slog.Warn("substituting no-op for unknown action", "label", d.Action, "error", err)
		return action.NoOp(), rec, nil
	}

	rec.Applied = true
	return ev, rec, nil
}

func (o *Orchestrator) saveHistory() {
	if err := o.log.Save(o.cfg.HistoryPath()); err != nil {
		slog.Error("failed to save history", "error", err)
	}
}
