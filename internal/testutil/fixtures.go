// Package testutil provides shared fixtures for tests: a realistic
// telemetry document, metrics-file writers and a fake engine binary.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/dpsweep/internal/metrics"
)

// Doc returns a small but fully-populated telemetry document describing a
// three-step elimination run. Tests asserting exact aggregates are
// written against these numbers.
func Doc() *metrics.Document {
	return &metrics.Document{
		Counters: map[string]int64{
			"InitVars":                    10,
			"FinalVars":                   4,
			"EliminatedVars":              6,
			"MinVar":                      1,
			"UnitLiteralsRemoved":         2,
			"AbsorbedClausesRemoved":      5,
			"WatchedLiterals_Assignments": 1000,
		},
		Durations: map[string][]int64{
			"EliminateVar_Total":                   {100, 200, 300},
			"EliminateVar_SubsetDecomposition":     {10, 20, 30},
			"EliminateVar_Resolution":              {40, 50, 60},
			"EliminateVar_Unification":             {20, 30, 40},
			"EliminateVar_TautologiesRemoval":      {5, 10, 15},
			"VarSelection":                         {7, 8, 9},
			"RemoveAbsorbedClauses_Serialize":      {},
			"RemoveAbsorbedClauses_Search":         {5, 5},
			"RemoveAbsorbedClauses_Build":          {},
			"IncrementalAbsorbedRemoval_Serialize": {},
			"IncrementalAbsorbedRemoval_Search":    {},
			"IncrementalAbsorbedRemoval_Build":     {},
			"ReadInputFormula":                     {111},
			"WriteOutputFormula":                   {},
			"AlgorithmTotal":                       {999},
		},
		CumulativeDurations: map[string]int64{
			"WatchedLiterals_Propagation": 500_000,
			"WatchedLiterals_Backtrack":   250_000,
		},
		Series: map[string][]float64{
			"ClauseCounts":            {50, 60, 40},
			"NodeCounts":              {500, 600, 400},
			"AbsorbedClausesRemoved":  {2, 3},
			"AbsorbedClausesNotAdded": {},
			"HeuristicScores":         {1, 2, 3},
			"ClauseCountDifference":   {2, 4, 6},
		},
	}
}

// WriteMetrics marshals the document into dir/metrics.json, creating the
// directory first.
func WriteMetrics(t *testing.T, dir string, doc *metrics.Document) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, metrics.FileName), raw, 0o644))
}

// WriteFakeEngine writes an executable shell script standing in for the
// DP engine binary and returns its path.
func WriteFakeEngine(t *testing.T, dir, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake engine scripts need a POSIX shell")
	}
	path := filepath.Join(dir, "dp")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}
