package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/vk/dpsweep/internal/aggregate"
	"github.com/vk/dpsweep/internal/compare"
	"github.com/vk/dpsweep/internal/export"
	"github.com/vk/dpsweep/internal/fsutil"
	"github.com/vk/dpsweep/internal/gridsearch"
	"github.com/vk/dpsweep/internal/metrics"
	"github.com/vk/dpsweep/internal/sweep"
)

// ErrBadResultsDir reports a summary command against a path that is not a
// results directory.
var ErrBadResultsDir = errors.New("invalid path to results")

// processMetrics walks every run of the batch under resultsDir, loads its
// telemetry and applies fn. Missing metrics files are warned about and
// skipped (or, under strict, fail the pass); malformed files and per-run
// processing errors are reported and never abort the remaining runs.
func (a *App) processMetrics(
	ctx context.Context,
	resultsDir string,
	strict bool,
	fn func(d *sweep.Descriptor, doc *metrics.Document) error,
) error {
	if !fsutil.DirExists(resultsDir) {
		return fmt.Errorf("%w: %s", ErrBadResultsDir, resultsDir)
	}

	space := a.manifest.Space(resultsDir, false)
	for _, d := range space.All() {
		doc, err := metrics.Load(d.WorkDir)
		switch {
		case errors.Is(err, metrics.ErrNotFound):
			if strict {
				return fmt.Errorf("run %d (%s): %w", d.Index, d.WorkDir, err)
			}
			a.logger.Warn("Metrics file doesn't exist, skipping run.", "workDir", d.WorkDir)
			continue
		case err != nil:
			a.logger.Error("Skipping unusable metrics file.", "workDir", d.WorkDir, "error", err)
			continue
		}

		a.logger.Info("Processing metrics file.", "path", filepath.Join(d.WorkDir, metrics.FileName))
		if err := fn(d, doc); err != nil {
			a.logger.Error("Failed to process run metrics, skipping run.",
				"workDir", d.WorkDir, "error", err)
		}
	}
	return nil
}

// summarize writes the per-run summary tables into each run's working
// directory.
func (a *App) summarize(ctx context.Context, cfg *Config) error {
	return a.processMetrics(ctx, cfg.ResultsDir, cfg.StrictMetrics,
		func(d *sweep.Descriptor, doc *metrics.Document) error {
			tables, err := aggregate.Summarize(doc)
			if err != nil {
				return err
			}
			for _, t := range tables {
				path := filepath.Join(d.WorkDir, t.Name+"."+cfg.Format)
				if err := export.Export(t.Table, path, cfg.Format, t.IncludeIndex); err != nil {
					return err
				}
			}
			return nil
		})
}

// setupSummary extracts the comparison scalars of every run and writes
// one cross-setup table into the results directory.
func (a *App) setupSummary(ctx context.Context, cfg *Config) error {
	data := make(map[string]map[string]compare.Scalars)
	err := a.processMetrics(ctx, cfg.ResultsDir, cfg.StrictMetrics,
		func(d *sweep.Descriptor, doc *metrics.Document) error {
			if data[d.Problem] == nil {
				data[d.Problem] = make(map[string]compare.Scalars)
			}
			data[d.Problem][d.Setup] = compare.Extract(doc)
			return nil
		})
	if err != nil {
		return err
	}

	table := compare.Compare(data, a.manifest.Setups)
	path := filepath.Join(cfg.ResultsDir, "summary_data."+cfg.Format)
	return export.Export(table, path, cfg.Format, true)
}

// gridProcess folds a finished grid search into results.csv.
func (a *App) gridProcess(ctx context.Context, cfg *Config) error {
	if !a.manifest.HasGrid() {
		return ErrNoGrid
	}
	if !fsutil.DirExists(cfg.ResultsDir) {
		return fmt.Errorf("%w: %s", ErrBadResultsDir, cfg.ResultsDir)
	}

	space := a.manifest.Space(cfg.ResultsDir, true)
	table, err := gridsearch.Results(ctx, space, a.manifest.Grid, cfg.StrictMetrics)
	if err != nil {
		return err
	}
	path := filepath.Join(cfg.ResultsDir, gridsearch.ResultsFileName)
	return export.Export(table, path, export.FormatCSV, true)
}
