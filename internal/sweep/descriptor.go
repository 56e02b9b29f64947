package sweep

import (
	"path/filepath"
	"strings"
)

// Layout resolves the on-disk locations a descriptor refers to.
type Layout struct {
	// InputsDir holds "<problem>.cnf" formulas and optional
	// "<problem>.toml" per-problem engine configs.
	InputsDir string
	// SetupsDir holds "<setup>.toml" engine configs.
	SetupsDir string
	// ResultsDir is the root under which per-run working directories
	// are created.
	ResultsDir string
}

// Descriptor identifies one engine run: a (problem, setup, grid
// assignment) triple together with its resolved file paths. Descriptors
// are created once during enumeration and never mutated afterwards.
type Descriptor struct {
	// Index is the position of this descriptor in enumeration order.
	// It is stable run-to-run so a single failed case can be re-run by
	// its position alone.
	Index int

	Problem string
	Setup   string

	// Overrides holds the grid assignment, one entry per axis, in
	// declared axis order. Empty when no grid is configured.
	Overrides []Override

	// InputFormula is the path to the problem's CNF input file.
	InputFormula string
	// SetupConfig is the path to the setup's engine config.
	SetupConfig string
	// ProblemConfig is the path to the optional per-problem engine
	// config; it is only passed to the engine when the file exists.
	ProblemConfig string
	// WorkDir is the run's private working directory, a pure function
	// of the descriptor's identity.
	WorkDir string
}

func newDescriptor(index int, problem, setup string, overrides []Override, layout Layout) *Descriptor {
	workDir := filepath.Join(layout.ResultsDir, setup, problem)
	if len(overrides) > 0 {
		workDir = filepath.Join(workDir, assignmentLeaf(overrides))
	}
	return &Descriptor{
		Index:         index,
		Problem:       problem,
		Setup:         setup,
		Overrides:     overrides,
		InputFormula:  filepath.Join(layout.InputsDir, problem+".cnf"),
		SetupConfig:   filepath.Join(layout.SetupsDir, setup+".toml"),
		ProblemConfig: filepath.Join(layout.InputsDir, problem+".toml"),
		WorkDir:       workDir,
	}
}

// assignmentLeaf derives a short directory name from a grid assignment,
// e.g. "com=1.30_par=0.10". Option names are abbreviated to their first
// three characters; values use the same fixed precision as the engine
// flags, which keeps distinct assignments in distinct directories.
func assignmentLeaf(overrides []Override) string {
	parts := make([]string, len(overrides))
	for i, o := range overrides {
		name := o.Option
		if len(name) > 3 {
			name = name[:3]
		}
		parts[i] = name + "=" + o.FormatValue()
	}
	return strings.Join(parts, "_")
}
