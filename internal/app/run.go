package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/vk/dpsweep/internal/ctxlog"
	"github.com/vk/dpsweep/internal/orch"
	"github.com/vk/dpsweep/internal/sweep"
)

// ErrNoGrid reports a grid command against a manifest without grid axes.
var ErrNoGrid = errors.New("manifest declares no grid axes")

// Run executes the parsed command.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", cfg.Command)

	switch cfg.Command {
	case CmdCount:
		fmt.Fprintln(a.outW, a.manifest.Space("", false).Count())
		return nil
	case CmdGridCount:
		if !a.manifest.HasGrid() {
			return ErrNoGrid
		}
		fmt.Fprintln(a.outW, a.manifest.Space("", true).Count())
		return nil
	case CmdRun:
		return a.runBatch(ctx, cfg, false, cfg.Workers)
	case CmdGridRun:
		if !a.manifest.HasGrid() {
			return ErrNoGrid
		}
		// Grid searches explore many short runs; they execute serially
		// so per-run observations stay comparable.
		return a.runBatch(ctx, cfg, true, 1)
	case CmdSummarize:
		return a.summarize(ctx, cfg)
	case CmdSetupSummary:
		return a.setupSummary(ctx, cfg)
	case CmdGridProcess:
		return a.gridProcess(ctx, cfg)
	default:
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
}

// runBatch enumerates the requested runs and hands them to the process
// orchestrator.
func (a *App) runBatch(ctx context.Context, cfg *Config, withGrid bool, workers int) error {
	space := a.manifest.Space(cfg.ResultsDir, withGrid)

	var runs []*sweep.Descriptor
	if cfg.RunIndex >= 0 {
		d := space.At(cfg.RunIndex)
		if d == nil {
			return fmt.Errorf("run index %d out of range, space has %d runs", cfg.RunIndex, space.Count())
		}
		runs = []*sweep.Descriptor{d}
	} else {
		for _, d := range space.All() {
			runs = append(runs, d)
		}
	}

	batch := &orch.Batch{
		Options: orch.Options{
			Executable: cfg.Executable,
			BaseConfig: a.manifest.BaseConfig,
			InputFlag:  a.manifest.InputFlag,
		},
		Workers: workers,
	}
	outcomes, err := batch.Run(ctx, runs)
	if err != nil {
		return err
	}

	for _, o := range outcomes {
		if o.Err != nil {
			a.logger.Error("Run could not be executed.",
				"index", o.Descriptor.Index, "workDir", o.Descriptor.WorkDir, "error", o.Err)
		}
	}

	// In serial mode the engine output (and exit banner) already went to
	// the console; after a parallel batch, report per-run exit codes in
	// submission order.
	if workers > 1 {
		fmt.Fprintln(a.outW)
		for _, o := range outcomes {
			fmt.Fprintf(a.outW, "Experiment %s exited with code %d\n",
				filepath.Base(o.Descriptor.WorkDir), o.ExitCode)
		}
	}
	return nil
}
