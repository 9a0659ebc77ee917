package backend

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aruzzi/gbpilot/pilot/capture"
	"github.com/aruzzi/gbpilot/pilot/emu"
)

// Headless is the no-display backend for batch runs. It logs progress and
// optionally writes PNG snapshots of the frame every N iterations so a run
// can be inspected afterwards.
type Headless struct {
	config Config
	count  int
}

func NewHeadless() *Headless {
	return &Headless{}
}

func (h *Headless) Init(config Config) error {
	h.config = config
	if config.SnapshotInterval > 0 {
		if config.SnapshotDir == "" {
			dir, err := os.MkdirTemp("", "gbpilot-snapshots-*")
			if err != nil {
				return fmt.Errorf("create snapshot directory: %w", err)
			}
			h.config.SnapshotDir = dir
		} else if err := os.MkdirAll(config.SnapshotDir, 0755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
		slog.Info("headless snapshots enabled", "interval", config.SnapshotInterval, "dir", h.config.SnapshotDir)
	}
	return nil
}

func (h *Headless) Update(frame *emu.Frame, status Status) error {
	h.count++

	if h.config.SnapshotInterval > 0 && h.count%h.config.SnapshotInterval == 0 {
		h.saveSnapshot(frame, status.Step)
	}
	if h.count%10 == 0 {
		slog.Info("iteration progress", "step", status.Step, "last_action", status.LastAction)
	}
	return nil
}

func (h *Headless) Cleanup() error {
	if h.config.SnapshotInterval > 0 {
		slog.Info("snapshots saved", "dir", h.config.SnapshotDir, "iterations", h.count)
	}
	return nil
}

func (h *Headless) saveSnapshot(frame *emu.Frame, step uint64) {
	data, err := capture.Encode(frame, 1)
	if err != nil {
		slog.Error("failed to encode snapshot", "step", step, "error", err)
		return
	}
	name := fmt.Sprintf("%s_step_%d.png", h.config.ROMName, step)
	path := filepath.Join(h.config.SnapshotDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		slog.Error("failed to save snapshot", "path", path, "error", err)
		return
	}
	slog.Debug("snapshot saved", "path", path)
}
