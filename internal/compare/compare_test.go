package compare_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dpsweep/internal/compare"
	"github.com/vk/dpsweep/internal/export"
	"github.com/vk/dpsweep/internal/metrics"
	"github.com/vk/dpsweep/internal/testutil"
)

func TestExtract_FixtureScalars(t *testing.T) {
	t.Parallel()

	// --- Act ---
	s := compare.Extract(testutil.Doc())

	// --- Assert ---
	assert.Equal(t, 999.0, s.Duration)
	// (4 - 1 + 1) / (10 - 1 + 1)
	assert.Equal(t, 0.4, s.RemainingVarsRatio)
	// 40 / 50
	assert.Equal(t, 0.8, s.Growth)
}

func TestExtract_DegenerateDocuments(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	doc := &metrics.Document{
		Counters:            map[string]int64{"InitVars": 0, "MinVar": 1},
		Durations:           map[string][]int64{},
		CumulativeDurations: map[string]int64{},
		Series:              map[string][]float64{"ClauseCounts": {}},
	}

	// --- Act ---
	s := compare.Extract(doc)

	// --- Assert ---
	assert.Zero(t, s.Duration)
	assert.Equal(t, -1.0, s.RemainingVarsRatio)
	assert.Equal(t, -1.0, s.Growth)

	doc.Series["ClauseCounts"] = []float64{0, 10}
	assert.Equal(t, -1.0, compare.Extract(doc).Growth, "a zero initial clause count cannot be a growth baseline")
}

func TestCompare_RectangularSortedTable(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	perRun := map[string]map[string]compare.Scalars{
		"zebra": {
			"fast": {Duration: 10, RemainingVarsRatio: 0.5, Growth: 1.1},
			"slow": {Duration: 20, RemainingVarsRatio: 0.6, Growth: 1.2},
		},
		"aardvark": {
			"fast": {Duration: 30, RemainingVarsRatio: 0.7, Growth: 1.3},
		},
	}

	// --- Act ---
	table := compare.Compare(perRun, []string{"fast", "slow"})

	// --- Assert ---
	require.Equal(t, []string{"aardvark", "zebra"}, table.Index, "problems sort lexically regardless of map order")
	require.Equal(t, []export.ColumnKey{
		{Group: "fast", Name: "duration"},
		{Group: "fast", Name: "vars"},
		{Group: "fast", Name: "growth"},
		{Group: "slow", Name: "duration"},
		{Group: "slow", Name: "vars"},
		{Group: "slow", Name: "growth"},
	}, table.Columns)

	assert.Equal(t, []float64{30, 0.7, 1.3}, table.Cells[0][:3])
	for _, v := range table.Cells[0][3:] {
		assert.True(t, math.IsNaN(v), "a missing (problem, setup) pair fills its group with NaN")
	}
	assert.Equal(t, []float64{10, 0.5, 1.1, 20, 0.6, 1.2}, table.Cells[1])
}

func TestCompare_EmptyInput(t *testing.T) {
	t.Parallel()

	table := compare.Compare(nil, []string{"fast"})

	assert.Zero(t, table.Rows())
	assert.Len(t, table.Columns, 3)
}
