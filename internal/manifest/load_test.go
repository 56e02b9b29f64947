package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dpsweep/internal/manifest"
)

// writeManifest drops an experiments.hcl with the given body into a fresh
// temp directory and returns its path.
func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "experiments.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FullManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeManifest(t, `
inputs_dir  = "formulas"
setups_dir  = "configs"
base_config = "base.toml"
input_flag  = true

problems = ["bf0432-007", "ssa7552-038"]
setups   = ["all_minimizations", "no_absorbed"]

axis "complete-minimization-relative-size" {
  values = [1.0, 1.3, 1.6]
}
`)

	// --- Act ---
	m, err := manifest.Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	root := filepath.Dir(path)
	assert.Equal(t, filepath.Join(root, "formulas"), m.InputsDir)
	assert.Equal(t, filepath.Join(root, "configs"), m.SetupsDir)
	assert.Equal(t, filepath.Join(root, "base.toml"), m.BaseConfig)
	assert.True(t, m.InputFlag)
	assert.Equal(t, []string{"bf0432-007", "ssa7552-038"}, m.Problems)
	assert.Equal(t, []string{"all_minimizations", "no_absorbed"}, m.Setups)

	require.True(t, m.HasGrid())
	require.Len(t, m.Grid, 1)
	assert.Equal(t, "complete-minimization-relative-size", m.Grid[0].Name())
	assert.Equal(t, []float64{1.0, 1.3, 1.6}, m.Grid[0].Values())
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeManifest(t, `
problems = ["p"]
setups   = ["s"]
`)

	// --- Act ---
	m, err := manifest.Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	root := filepath.Dir(path)
	assert.Equal(t, filepath.Join(root, "inputs"), m.InputsDir)
	assert.Equal(t, filepath.Join(root, "setups"), m.SetupsDir)
	assert.Equal(t, filepath.Join(root, "default_config.toml"), m.BaseConfig)
	assert.False(t, m.InputFlag)
	assert.False(t, m.HasGrid())
}

func TestLoad_DiscoversProblemsFromInputs(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeManifest(t, `setups = ["s"]`)
	inputsDir := filepath.Join(filepath.Dir(path), "inputs")
	require.NoError(t, os.MkdirAll(inputsDir, 0o755))
	for _, name := range []string{"zzz.cnf", "aaa.cnf", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(inputsDir, name), nil, 0o644))
	}

	// --- Act ---
	m, err := manifest.Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa", "zzz"}, m.Problems, "discovered problems are sorted stems of *.cnf files")
}

func TestLoad_GeometricAxis(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeManifest(t, `
problems = ["p"]
setups   = ["s"]

axis "partial-minimization-relative-size" {
  start = 1
  stop  = 3
  num   = 5
  shift = -0.7
}
`)

	// --- Act ---
	m, err := manifest.Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, m.Grid, 1)
	values := m.Grid[0].Values()
	require.Len(t, values, 5)
	assert.InDelta(t, 1.0, values[0], 1e-9)
	assert.InDelta(t, 3.0, values[4], 1e-9)
}

func TestLoad_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "no setups",
			body:    `problems = ["p"]` + "\n" + `setups = []`,
			wantErr: "declares no setups",
		},
		{
			name: "no problems anywhere",
			body: `setups = ["s"]`,
			// inputs_dir does not exist, so discovery fails too
			wantErr: "discovering problems",
		},
		{
			name: "axis with both values and range",
			body: `
problems = ["p"]
setups   = ["s"]
axis "a" {
  values = [1, 2]
  start  = 1
  stop   = 2
  num    = 2
}
`,
			wantErr: "both explicit values and a range",
		},
		{
			name: "axis range missing num",
			body: `
problems = ["p"]
setups   = ["s"]
axis "a" {
  start = 1
  stop  = 2
}
`,
			wantErr: "needs start, stop and num",
		},
		{
			name: "axis range starting at zero",
			body: `
problems = ["p"]
setups   = ["s"]
axis "a" {
  start = 0
  stop  = 3
  num   = 5
}
`,
			wantErr: "non-zero and share a sign",
		},
		{
			name: "axis range shifted onto zero",
			body: `
problems = ["p"]
setups   = ["s"]
axis "a" {
  start = 1
  stop  = 3
  num   = 5
  shift = -1
}
`,
			wantErr: "non-zero and share a sign",
		},
		{
			name: "axis range crossing zero",
			body: `
problems = ["p"]
setups   = ["s"]
axis "a" {
  start = -1
  stop  = 2
  num   = 3
}
`,
			wantErr: "non-zero and share a sign",
		},
		{
			name: "axis with empty values list",
			body: `
problems = ["p"]
setups   = ["s"]
axis "a" {
  values = []
}
`,
			wantErr: "values list is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			path := writeManifest(t, tt.body)

			// --- Act ---
			_, err := manifest.Load(context.Background(), path)

			// --- Assert ---
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestManifest_SpaceGridSelection(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeManifest(t, `
problems = ["p1", "p2"]
setups   = ["s1"]

axis "a" {
  values = [1, 2, 3]
}
`)
	m, err := manifest.Load(context.Background(), path)
	require.NoError(t, err)

	// --- Act / Assert ---
	assert.Equal(t, 2, m.Space("results", false).Count(), "plain experiment runs ignore the grid")
	assert.Equal(t, 6, m.Space("results", true).Count())
}
