package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/aruzzi/gbpilot/pilot"
	"github.com/aruzzi/gbpilot/pilot/backend"
	"github.com/aruzzi/gbpilot/pilot/config"
	"github.com/aruzzi/gbpilot/pilot/decision"
	"github.com/aruzzi/gbpilot/pilot/emu"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbpilot"
	app.Description = "Lets a vision-language model play a Game Boy game"
	app.Usage = "gbpilot [options] [ROM file]"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file (overrides GBPILOT_ROM)",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without the terminal display",
		},
		cli.IntFlag{
			Name:  "max-steps",
			Usage: "Stop after N iterations (0 = unbounded)",
			Value: -1,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N iterations in headless mode (0 = disabled)",
			Value: -1,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "endpoint",
			Usage: "Decision endpoint URL (overrides GBPILOT_ENDPOINT)",
		},
		cli.StringFlag{
			Name:  "model",
			Usage: "Model name (overrides GBPILOT_MODEL)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gbpilot failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.FromEnv()
	if rom := c.String("rom"); rom != "" {
		cfg.ROMPath = rom
	} else if c.NArg() > 0 {
		cfg.ROMPath = c.Args().Get(0)
	}
	if c.Bool("headless") {
		cfg.Headless = true
	}
	if n := c.Int("max-steps"); n >= 0 {
		cfg.MaxSteps = n
	}
	if n := c.Int("snapshot-interval"); n >= 0 {
		cfg.SnapshotInterval = n
	}
	if dir := c.String("snapshot-dir"); dir != "" {
		cfg.SnapshotDir = dir
	}
	if ep := c.String("endpoint"); ep != "" {
		cfg.Endpoint = ep
	}
	if m := c.String("model"); m != "" {
		cfg.Model = m
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	emulator := emu.NewPipe(cfg.EmulatorCmd, cfg.ROMPath)
	defer emulator.Close()

	client := decision.NewClient(cfg.Endpoint, cfg.APIKey, cfg.Model)
	client.MaxRetries = cfg.MaxRetries
	client.RetryDelay = cfg.RetryDelay

	var display backend.Backend
	if cfg.Headless {
		display = backend.NewHeadless()
	} else {
		display = backend.NewTerminal()
	}

	return pilot.New(cfg, emulator, client, display).Run(ctx)
}

// setupLogging installs the default slog logger. Headless runs log to both
// stderr and the log file; with the terminal display active, stderr would
// fight tcell for the screen, so logs go to the file only.
func setupLogging(cfg config.Config) error {
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	var out io.Writer = file
	if cfg.Headless {
		out = io.MultiWriter(os.Stderr, file)
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(handler))
	return nil
}
