package aggregate

import (
	"fmt"
	"math"

	"github.com/vk/dpsweep/internal/export"
	"github.com/vk/dpsweep/internal/metrics"
	"github.com/vk/dpsweep/internal/stats"
)

// NamedTable is one per-run summary table ready for export.
type NamedTable struct {
	Name         string
	Table        *export.Table
	IncludeIndex bool
}

// Per-step stages of a single variable elimination, as instrumented by
// the engine under the "EliminateVar_" duration prefix.
var eliminationStages = []string{
	"Total",
	"SubsetDecomposition",
	"Resolution",
	"Unification",
	"TautologiesRemoval",
}

// Summarize reduces one telemetry document into the five summary tables:
// elimination_stages, absorbed_clauses, algorithm_stages, zbdd_sizes and
// the one-row overall summary. Any shape violation inside the document is
// returned as an error scoped to this run.
func Summarize(doc *metrics.Document) ([]NamedTable, error) {
	elimination, err := eliminationFrame(doc)
	if err != nil {
		return nil, err
	}

	// The ratio statistic for every table is normalized by the grand
	// total of elimination time.
	totalSum := stats.Sum{}.Apply(elimination.column("Total"))
	registry := stats.Registry(totalSum)

	var tables []NamedTable

	eliminationSummary := elimination.reduce(registry, true)
	tables = append(tables, NamedTable{
		Name:         "elimination_stages",
		Table:        eliminationSummary.DropRow("count"),
		IncludeIndex: true,
	})

	variables := variablesFrame(doc)
	variablesSummary := variables.reduce(registry, true)

	absorbed, err := absorbedFrame(doc, "RemoveAbsorbedClauses_", "AbsorbedClausesRemoved")
	if err != nil {
		return nil, err
	}
	absorbedSummary := absorbed.reduce(registry, true)

	incremental, err := absorbedFrame(doc, "IncrementalAbsorbedRemoval_", "AbsorbedClausesNotAdded")
	if err != nil {
		return nil, err
	}
	incrementalSummary := incremental.reduce(registry, true)

	tables = append(tables, NamedTable{
		Name:         "absorbed_clauses",
		Table:        joinPrefixed(absorbedSummary, "Removed_", incrementalSummary, "Incremental_"),
		IncludeIndex: true,
	})

	stages := algorithmStages(eliminationSummary, variablesSummary, absorbedSummary, registry)
	tables = append(tables, NamedTable{
		Name:         "algorithm_stages",
		Table:        stages,
		IncludeIndex: true,
	})

	sizes, err := sizesFrame(doc)
	if err != nil {
		return nil, err
	}
	// Count/sum/ratio are meaningless for decision-diagram sizes; only
	// the distribution statistics apply.
	tables = append(tables, NamedTable{
		Name:         "zbdd_sizes",
		Table:        sizes.reduce(registry[3:], true),
		IncludeIndex: true,
	})

	tables = append(tables, NamedTable{
		Name:         "summary",
		Table:        overallSummary(doc, stages),
		IncludeIndex: false,
	})

	return tables, nil
}

// eliminationFrame assembles the per-step elimination stage durations and
// the derived MeasurementOverhead column (total minus instrumented
// substages), which exposes uninstrumented time.
func eliminationFrame(doc *metrics.Document) (*frame, error) {
	f := newFrame()
	for _, stage := range eliminationStages {
		f.add(stage, doc.Duration("EliminateVar_"+stage))
	}
	if err := f.checkShape(); err != nil {
		return nil, err
	}

	total := f.column("Total")
	substages := f.rowSums(1, len(f.cols))
	overhead := make([]float64, len(total))
	for i := range overhead {
		overhead[i] = total[i] - substages[i]
	}
	f.add("MeasurementOverhead", overhead)
	f.fillIfEmpty(-1)
	return f, nil
}

// variablesFrame holds the per-step variable selection durations.
func variablesFrame(doc *metrics.Document) *frame {
	f := newFrame()
	f.add("VarSelection", doc.Duration("VarSelection"))
	f.fillIfEmpty(-1)
	return f
}

// absorbedFrame assembles one absorbed-clause removal table. Engine
// setups without decision-diagram rebuilds emit no Serialize/Build
// timings; the frame then carries only the Search column next to the
// removal counts. TotalDuration is prepended as the per-step sum of the
// duration columns.
func absorbedFrame(doc *metrics.Document, prefix, seriesName string) (*frame, error) {
	serialize := doc.Duration(prefix + "Serialize")
	build := doc.Duration(prefix + "Build")

	f := newFrame()
	if len(serialize) == 0 {
		if len(build) != 0 {
			return nil, fmt.Errorf("%sBuild emitted without %sSerialize", prefix, prefix)
		}
		f.add("Search", doc.Duration(prefix+"Search"))
	} else {
		f.add("Serialize", serialize)
		f.add("Search", doc.Duration(prefix+"Search"))
		f.add("Build", build)
	}
	f.add(seriesName, doc.SeriesValues(seriesName))
	if err := f.checkShape(); err != nil {
		return nil, err
	}

	f.insertFront("TotalDuration", f.rowSums(0, len(f.cols)-1))
	f.fillIfEmpty(-1)
	return f, nil
}

// sizesFrame holds the decision-diagram size series.
func sizesFrame(doc *metrics.Document) (*frame, error) {
	f := newFrame()
	f.add("ClauseCounts", doc.SeriesValues("ClauseCounts"))
	f.add("NodeCounts", doc.SeriesValues("NodeCounts"))
	if err := f.checkShape(); err != nil {
		return nil, err
	}
	return f, nil
}

// joinPrefixed merges two summary tables with identical row sets into one,
// prefixing each side's column names.
func joinPrefixed(left *export.Table, leftPrefix string, right *export.Table, rightPrefix string) *export.Table {
	var columns []string
	for _, c := range left.Columns {
		columns = append(columns, leftPrefix+c.Name)
	}
	for _, c := range right.Columns {
		columns = append(columns, rightPrefix+c.Name)
	}

	joined := export.NewTable(columns...)
	for i, label := range left.Index {
		row := append(append([]float64(nil), left.Cells[i]...), right.Cells[i]...)
		joined.AppendRow(label, row...)
	}
	return joined
}

// algorithmStages builds the cross-stage comparison: total elimination
// time, variable selection time and absorbed-removal time side by side.
// The ratio row is rescaled from the 100000-based ratio to per-mille.
func algorithmStages(elimination, variables, absorbed *export.Table, registry []stats.Statistic) *export.Table {
	stages := export.NewTable("Elimination", "VarSelection", "AbsorbedRemovalDuration", "AbsorbedClausesRemoved")
	for _, st := range registry {
		name := st.Name()
		row := []float64{
			elimination.Value(name, "Total"),
			variables.Value(name, "VarSelection"),
			absorbed.Value(name, "TotalDuration"),
			absorbed.Value(name, "AbsorbedClausesRemoved"),
		}
		if name == "ratio" {
			for i := range row {
				row[i] = math.Floor(row[i] / 100)
			}
		}
		stages.AppendRow(name, row...)
	}
	return stages
}

// overallSummary is the one-row whole-run overview combining counters,
// boundary series values, stage totals and derived throughput metrics.
func overallSummary(doc *metrics.Document, stages *export.Table) *export.Table {
	clauseCounts := doc.SeriesValues("ClauseCounts")

	table := export.NewTable(
		"InitVars", "FinalVars", "EliminatedVars",
		"InitClauses", "FinalClauses",
		"RemovedUnitLiterals", "RemovedAbsorbedClauses",
		"HeuristicCorrelation",
		"ReadDuration", "WriteDuration", "AlgorithmDuration",
		"VarSelection", "Elimination", "AbsorbedRemoval",
		"UnitPropagationsPerSecond", "BacktrackToPropagationRatio",
	)
	table.AppendRow("0",
		float64(doc.Counter("InitVars")),
		float64(doc.Counter("FinalVars")),
		float64(doc.Counter("EliminatedVars")),
		first(clauseCounts),
		last(clauseCounts),
		float64(doc.Counter("UnitLiteralsRemoved")),
		float64(doc.Counter("AbsorbedClausesRemoved")),
		stats.Pearson(doc.SeriesValues("HeuristicScores"), doc.SeriesValues("ClauseCountDifference")),
		first(doc.Duration("ReadInputFormula")),
		first(doc.Duration("WriteOutputFormula")),
		first(doc.Duration("AlgorithmTotal")),
		stages.Value("sum", "VarSelection"),
		stages.Value("sum", "Elimination"),
		stages.Value("sum", "AbsorbedRemovalDuration"),
		UnitPropagationsPerSecond(doc),
		BacktrackToPropagationRatio(doc),
	)
	return table
}

// UnitPropagationsPerSecond derives the watched-literal propagation
// throughput. It is -1 when no propagation time was recorded.
func UnitPropagationsPerSecond(doc *metrics.Document) float64 {
	duration := doc.Cumulative("WatchedLiterals_Propagation")
	if duration == 0 {
		return -1
	}
	assignments := doc.Counter("WatchedLiterals_Assignments")
	seconds := float64(duration) / 1_000_000
	return float64(assignments) / seconds
}

// BacktrackToPropagationRatio derives how much backtracking cost relative
// to propagation. It is -1 when no propagation time was recorded.
func BacktrackToPropagationRatio(doc *metrics.Document) float64 {
	propagation := doc.Cumulative("WatchedLiterals_Propagation")
	if propagation == 0 {
		return -1
	}
	return float64(doc.Cumulative("WatchedLiterals_Backtrack")) / float64(propagation)
}

func first(col []float64) float64 {
	if len(col) == 0 {
		return 0
	}
	return col[0]
}

func last(col []float64) float64 {
	if len(col) == 0 {
		return 0
	}
	return col[len(col)-1]
}
