package gridsearch_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dpsweep/internal/gridsearch"
	"github.com/vk/dpsweep/internal/metrics"
	"github.com/vk/dpsweep/internal/sweep"
	"github.com/vk/dpsweep/internal/testutil"
)

func gridSpace(t *testing.T) (*sweep.Space, []sweep.Axis) {
	t.Helper()
	dir := t.TempDir()
	axes := []sweep.Axis{sweep.NewAxis("alpha", []float64{1, 2})}
	space := sweep.NewSpace([]string{"p"}, []string{"grid_search"}, axes, sweep.Layout{
		InputsDir:  filepath.Join(dir, "inputs"),
		SetupsDir:  filepath.Join(dir, "setups"),
		ResultsDir: filepath.Join(dir, "results"),
	})
	return space, axes
}

func TestResults_CollectsPerAssignmentScalars(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	space, axes := gridSpace(t)
	for _, d := range space.All() {
		testutil.WriteMetrics(t, d.WorkDir, testutil.Doc())
	}

	// --- Act ---
	table, err := gridsearch.Results(context.Background(), space, axes, false)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, 2, table.Rows())
	assert.Equal(t, []string{"p", "p"}, table.Index)
	assert.Equal(t, []float64{1, 999, 0.4}, table.Cells[0])
	assert.Equal(t, []float64{2, 999, 0.4}, table.Cells[1])
}

func TestResults_MissingRunKeepsNaNRow(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	space, axes := gridSpace(t)
	testutil.WriteMetrics(t, space.At(0).WorkDir, testutil.Doc())

	// --- Act ---
	table, err := gridsearch.Results(context.Background(), space, axes, false)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, 2, table.Rows())
	assert.Equal(t, 2.0, table.Cells[1][0], "the grid assignment is known even without telemetry")
	assert.True(t, math.IsNaN(table.Cells[1][1]))
	assert.True(t, math.IsNaN(table.Cells[1][2]))
}

func TestResults_StrictFailsOnMissingRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	space, axes := gridSpace(t)

	// --- Act ---
	_, err := gridsearch.Results(context.Background(), space, axes, true)

	// --- Assert ---
	require.ErrorIs(t, err, metrics.ErrNotFound)
}
