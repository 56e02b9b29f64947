// Package aggregate reduces one run's telemetry document into the per-run
// statistical summary tables.
package aggregate

import (
	"fmt"
	"math"

	"github.com/vk/dpsweep/internal/export"
	"github.com/vk/dpsweep/internal/stats"
)

// frame is a small columnar working set: named columns of equal length,
// one row per algorithm step. It only exists between extraction from a
// document and reduction into an export.Table.
type frame struct {
	names []string
	cols  [][]float64
}

func newFrame() *frame {
	return &frame{}
}

// add appends a column. Column lengths are checked in checkShape, not
// here, so callers can assemble a frame before validating it.
func (f *frame) add(name string, col []float64) {
	f.names = append(f.names, name)
	f.cols = append(f.cols, col)
}

// checkShape verifies that all columns share one step count. A telemetry
// document violating this is malformed, reported per run.
func (f *frame) checkShape() error {
	for i := 1; i < len(f.cols); i++ {
		if len(f.cols[i]) != len(f.cols[0]) {
			return fmt.Errorf("telemetry step counts differ: %s has %d steps, %s has %d",
				f.names[0], len(f.cols[0]), f.names[i], len(f.cols[i]))
		}
	}
	return nil
}

func (f *frame) rows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0])
}

// fillIfEmpty replaces a zero-row frame with a single row of the sentinel
// value so that downstream aggregation stays defined.
func (f *frame) fillIfEmpty(sentinel float64) {
	if f.rows() > 0 {
		return
	}
	for i := range f.cols {
		f.cols[i] = []float64{sentinel}
	}
}

// column returns the named column, or nil when absent.
func (f *frame) column(name string) []float64 {
	for i, n := range f.names {
		if n == name {
			return f.cols[i]
		}
	}
	return nil
}

// rowSums returns the per-row sum of the column range [from, to).
func (f *frame) rowSums(from, to int) []float64 {
	sums := make([]float64, f.rows())
	for r := range sums {
		for c := from; c < to; c++ {
			sums[r] += f.cols[c][r]
		}
	}
	return sums
}

// insertFront prepends a column.
func (f *frame) insertFront(name string, col []float64) {
	f.names = append([]string{name}, f.names...)
	f.cols = append([][]float64{col}, f.cols...)
}

// reduce applies the statistic set to every column and returns the
// summary: one row per statistic, one column per frame column. With
// coerceInt set, every aggregate is truncated to an integer (microsecond
// duration reporting).
func (f *frame) reduce(registry []stats.Statistic, coerceInt bool) *export.Table {
	table := export.NewTable(f.names...)
	for _, st := range registry {
		row := make([]float64, len(f.cols))
		for i, col := range f.cols {
			v := st.Apply(col)
			if coerceInt {
				v = math.Trunc(v)
			}
			row[i] = v
		}
		table.AppendRow(st.Name(), row...)
	}
	return table
}
