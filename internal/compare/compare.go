// Package compare folds many runs' scalar metrics into one rectangular
// cross-setup comparison table.
package compare

import (
	"math"
	"sort"

	"github.com/vk/dpsweep/internal/export"
	"github.com/vk/dpsweep/internal/metrics"
)

// Scalars are the fixed per-run comparison metrics extracted from one
// telemetry document.
type Scalars struct {
	// Duration is the engine's own total algorithm time in microseconds.
	Duration float64
	// RemainingVarsRatio is the fraction of eliminable variables the run
	// left uneliminated.
	RemainingVarsRatio float64
	// Growth is the ratio of final to initial clause count.
	Growth float64
}

// MetricNames are the column names of one setup's column group, in order.
var MetricNames = []string{"duration", "vars", "growth"}

// Extract pulls the comparison scalars out of one document. Zero
// denominators yield the -1 sentinel instead of dividing by zero.
func Extract(doc *metrics.Document) Scalars {
	return Scalars{
		Duration:           firstOrZero(doc.Duration("AlgorithmTotal")),
		RemainingVarsRatio: remainingVarsRatio(doc),
		Growth:             growth(doc),
	}
}

// remainingVarsRatio relates remaining to total eliminable variables.
// MinVar is the lowest variable the engine may eliminate, so both sides
// are offset by it.
func remainingVarsRatio(doc *metrics.Document) float64 {
	minVar := doc.Counter("MinVar")
	total := doc.Counter("InitVars") - minVar + 1
	if total == 0 {
		return -1
	}
	remaining := doc.Counter("FinalVars") - minVar + 1
	return float64(remaining) / float64(total)
}

func growth(doc *metrics.Document) float64 {
	counts := doc.SeriesValues("ClauseCounts")
	if len(counts) == 0 || counts[0] == 0 {
		return -1
	}
	return counts[len(counts)-1] / counts[0]
}

func firstOrZero(col []float64) float64 {
	if len(col) == 0 {
		return 0
	}
	return col[0]
}

// Compare builds the comparison table: one row per problem (sorted for
// determinism), one column group per setup in declared order, each group
// carrying the fixed metric set. Any (problem, setup) pair absent from
// the input is filled with NaN in every column of that group, so the
// table is always rectangular.
func Compare(perRun map[string]map[string]Scalars, setups []string) *export.Table {
	var columns []export.ColumnKey
	for _, setup := range setups {
		for _, metric := range MetricNames {
			columns = append(columns, export.ColumnKey{Group: setup, Name: metric})
		}
	}
	table := export.NewGroupedTable(columns...)

	problems := make([]string, 0, len(perRun))
	for p := range perRun {
		problems = append(problems, p)
	}
	sort.Strings(problems)

	nan := math.NaN()
	for _, problem := range problems {
		row := make([]float64, 0, len(columns))
		for _, setup := range setups {
			if s, ok := perRun[problem][setup]; ok {
				row = append(row, s.Duration, s.RemainingVarsRatio, s.Growth)
			} else {
				row = append(row, nan, nan, nan)
			}
		}
		table.AppendRow(problem, row...)
	}
	return table
}
