// Package gridsearch reduces a hyperparameter grid-search batch into a
// single results table indexed by problem and grid assignment.
package gridsearch

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/vk/dpsweep/internal/compare"
	"github.com/vk/dpsweep/internal/ctxlog"
	"github.com/vk/dpsweep/internal/export"
	"github.com/vk/dpsweep/internal/metrics"
	"github.com/vk/dpsweep/internal/sweep"
)

// ResultsFileName is the table written into the grid-search results dir.
const ResultsFileName = "results.csv"

// Results collects per-run duration and remaining-variables ratio across
// the whole grid. Each row carries the problem, the grid assignment (one
// column per axis) and the two observed metrics; runs without usable
// telemetry keep NaN observations so the table stays rectangular. With
// strict set, a missing metrics file fails the whole extraction instead.
func Results(ctx context.Context, space *sweep.Space, axes []sweep.Axis, strict bool) (*export.Table, error) {
	logger := ctxlog.FromContext(ctx)

	columns := make([]export.ColumnKey, 0, len(axes)+2)
	for _, axis := range axes {
		columns = append(columns, export.ColumnKey{Name: axis.Name()})
	}
	columns = append(columns,
		export.ColumnKey{Name: "duration"},
		export.ColumnKey{Name: "remaining_vars"},
	)
	table := export.NewGroupedTable(columns...)

	for _, d := range space.All() {
		row := make([]float64, 0, len(columns))
		for _, o := range d.Overrides {
			row = append(row, o.Value)
		}

		doc, err := metrics.Load(d.WorkDir)
		switch {
		case err == nil:
			scalars := compare.Extract(doc)
			row = append(row, scalars.Duration, scalars.RemainingVarsRatio)
		case errors.Is(err, metrics.ErrNotFound):
			if strict {
				return nil, fmt.Errorf("run %d (%s): %w", d.Index, d.WorkDir, err)
			}
			logger.Warn("Metrics file doesn't exist, leaving row empty.", "workDir", d.WorkDir)
			row = append(row, math.NaN(), math.NaN())
		default:
			// Malformed telemetry is reported per run, never fatal.
			logger.Error("Skipping unusable metrics file.", "workDir", d.WorkDir, "error", err)
			row = append(row, math.NaN(), math.NaN())
		}

		table.AppendRow(d.Problem, row...)
	}
	return table, nil
}
