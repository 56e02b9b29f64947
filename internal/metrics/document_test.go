package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dpsweep/internal/metrics"
	"github.com/vk/dpsweep/internal/testutil"
)

func TestLoad_RoundTripsFixture(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	testutil.WriteMetrics(t, dir, testutil.Doc())

	// --- Act ---
	doc, err := metrics.Load(dir)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, int64(10), doc.Counter("InitVars"))
	assert.Equal(t, []float64{100, 200, 300}, doc.Duration("EliminateVar_Total"))
	assert.Equal(t, int64(500_000), doc.Cumulative("WatchedLiterals_Propagation"))
	assert.Equal(t, []float64{50, 60, 40}, doc.SeriesValues("ClauseCounts"))
}

func TestLoad_MissingFileIsNotFound(t *testing.T) {
	t.Parallel()

	// --- Act ---
	doc, err := metrics.Load(t.TempDir())

	// --- Assert ---
	require.ErrorIs(t, err, metrics.ErrNotFound)
	assert.Nil(t, doc)
}

func TestLoad_InvalidJSONIsMalformed(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, metrics.FileName), []byte("{not json"), 0o644))

	// --- Act ---
	_, err := metrics.Load(dir)

	// --- Assert ---
	var malformed *metrics.MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, filepath.Join(dir, metrics.FileName), malformed.Path)
	assert.Contains(t, malformed.Error(), "invalid JSON")
}

func TestLoad_MissingNamespaceIsMalformed(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	payload := `{"counters": {}, "durations": {}, "series": {}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, metrics.FileName), []byte(payload), 0o644))

	// --- Act ---
	_, err := metrics.Load(dir)

	// --- Assert ---
	var malformed *metrics.MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, "cumulative_durations")
}

func TestDocument_AbsentMetricsDefaultToZero(t *testing.T) {
	t.Parallel()

	doc := testutil.Doc()

	assert.Zero(t, doc.Counter("NoSuchCounter"))
	assert.Empty(t, doc.Duration("NoSuchDuration"))
	assert.Zero(t, doc.Cumulative("NoSuchCumulative"))
	assert.Empty(t, doc.SeriesValues("NoSuchSeries"))
}

func TestDocument_AccessorsCopy(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	doc := testutil.Doc()

	// --- Act ---
	steps := doc.Duration("VarSelection")
	steps[0] = -1
	series := doc.SeriesValues("HeuristicScores")
	series[0] = -1

	// --- Assert ---
	assert.Equal(t, []float64{7, 8, 9}, doc.Duration("VarSelection"))
	assert.Equal(t, []float64{1, 2, 3}, doc.SeriesValues("HeuristicScores"))
}
