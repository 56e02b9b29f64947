package orch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/dpsweep/internal/ctxlog"
	"github.com/vk/dpsweep/internal/fsutil"
	"github.com/vk/dpsweep/internal/sweep"
)

// ErrBadExecutable reports a batch whose engine binary does not exist.
// It aborts the batch before any process is spawned.
var ErrBadExecutable = errors.New("invalid path to dp executable")

// ErrTooFewRuns reports a degenerate parallel request: more than one
// worker only makes sense with strictly more pending runs than workers.
var ErrTooFewRuns = errors.New("parallel execution requires more pending runs than workers")

// Batch executes a fixed set of runs with bounded parallelism.
type Batch struct {
	Options Options
	// Workers is the worker pool size. 1 selects serial mode with
	// console passthrough.
	Workers int
}

// Run executes all descriptors and returns one outcome per descriptor in
// submission order, regardless of the order concurrent runs finish in.
func (b *Batch) Run(ctx context.Context, runs []*sweep.Descriptor) ([]Outcome, error) {
	logger := ctxlog.FromContext(ctx)

	if !fsutil.FileExists(b.Options.Executable) {
		return nil, fmt.Errorf("%w: %s", ErrBadExecutable, b.Options.Executable)
	}
	if b.Workers > 1 && len(runs) <= b.Workers {
		return nil, fmt.Errorf("%w: %d runs, %d workers", ErrTooFewRuns, len(runs), b.Workers)
	}

	// Working directories are pure functions of run identity, so
	// creating them all up front is collision-free.
	commands := make([][]string, len(runs))
	for i, d := range runs {
		if err := fsutil.EnsureDir(d.WorkDir); err != nil {
			return nil, fmt.Errorf("creating working directory: %w", err)
		}
		commands[i] = BuildCommand(b.Options, d)
	}

	outcomes := make([]Outcome, len(runs))

	if b.Workers <= 1 {
		logger.Info("Running experiments serially.", "count", len(runs))
		for i, d := range runs {
			outcomes[i] = runOne(ctx, commands[i], d.WorkDir, false)
			outcomes[i].Descriptor = d
		}
		return outcomes, nil
	}

	logger.Info("Running experiments in parallel.", "count", len(runs), "workers", b.Workers)

	pending := make(chan int, len(runs))
	for i := range runs {
		pending <- i
	}
	close(pending)

	var wg sync.WaitGroup
	for w := 0; w < b.Workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			workerLogger := logger.With("workerID", workerID)
			for i := range pending {
				d := runs[i]
				workerLogger.Debug("Worker picked up run.", "index", d.Index, "workDir", d.WorkDir)
				outcomes[i] = runOne(ctx, commands[i], d.WorkDir, true)
				outcomes[i].Descriptor = d
			}
		}(w)
	}
	wg.Wait()

	return outcomes, nil
}
