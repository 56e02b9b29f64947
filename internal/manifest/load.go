package manifest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/dpsweep/internal/ctxlog"
	"github.com/vk/dpsweep/internal/fsutil"
	"github.com/vk/dpsweep/internal/sweep"
)

// Manifest is the loaded, validated experiment configuration. It is
// immutable once returned from Load.
type Manifest struct {
	InputsDir  string
	SetupsDir  string
	BaseConfig string
	InputFlag  bool

	Problems []string
	Setups   []string
	Grid     []sweep.Axis
}

// Space builds the setup space for a batch writing into resultsDir. The
// grid axes only participate when withGrid is set; the plain experiment
// commands sweep problems and setups alone, while the grid-search
// commands sweep the full product.
func (m *Manifest) Space(resultsDir string, withGrid bool) *sweep.Space {
	grid := m.Grid
	if !withGrid {
		grid = nil
	}
	return sweep.NewSpace(m.Problems, m.Setups, grid, sweep.Layout{
		InputsDir:  m.InputsDir,
		SetupsDir:  m.SetupsDir,
		ResultsDir: resultsDir,
	})
}

// HasGrid reports whether the manifest declares any grid axes.
func (m *Manifest) HasGrid() bool { return len(m.Grid) > 0 }

// Load parses and validates the manifest at the given path. Relative
// directory settings are resolved against the manifest's own directory.
func Load(ctx context.Context, path string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading experiment manifest.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, diags)
	}

	var raw fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, diags)
	}

	root := filepath.Dir(path)
	m := &Manifest{
		InputsDir:  resolve(root, orDefault(raw.InputsDir, "inputs")),
		SetupsDir:  resolve(root, orDefault(raw.SetupsDir, "setups")),
		BaseConfig: resolve(root, orDefault(raw.BaseConfig, "default_config.toml")),
		Problems:   raw.Problems,
		Setups:     raw.Setups,
	}
	if raw.InputFlag != nil {
		m.InputFlag = *raw.InputFlag
	}

	if len(m.Setups) == 0 {
		return nil, fmt.Errorf("manifest %s declares no setups", path)
	}

	if len(m.Problems) == 0 {
		problems, err := fsutil.FindStemsByExtension(m.InputsDir, ".cnf")
		if err != nil {
			return nil, fmt.Errorf("discovering problems in %s: %w", m.InputsDir, err)
		}
		if len(problems) == 0 {
			return nil, fmt.Errorf("manifest %s declares no problems and %s contains no .cnf files", path, m.InputsDir)
		}
		m.Problems = problems
		logger.Debug("Discovered problems from inputs directory.", "count", len(problems))
	}

	for _, block := range raw.Axes {
		axis, err := buildAxis(block)
		if err != nil {
			return nil, fmt.Errorf("manifest %s, axis %q: %w", path, block.Name, err)
		}
		m.Grid = append(m.Grid, axis)
	}

	logger.Debug("Manifest loaded.",
		"problems", len(m.Problems), "setups", len(m.Setups), "axes", len(m.Grid))
	return m, nil
}

// buildAxis turns an axis block into an immutable value sequence. An axis
// declares either an explicit values list or a geometric range, never both.
func buildAxis(block *axisBlock) (sweep.Axis, error) {
	values, explicit, err := explicitValues(block)
	if err != nil {
		return sweep.Axis{}, err
	}

	ranged := block.Start != nil || block.Stop != nil || block.Num != nil || block.Shift != nil
	switch {
	case explicit && ranged:
		return sweep.Axis{}, fmt.Errorf("declares both explicit values and a range")
	case explicit:
		return sweep.NewAxis(block.Name, values), nil
	case block.Start == nil || block.Stop == nil || block.Num == nil:
		return sweep.Axis{}, fmt.Errorf("a range needs start, stop and num")
	case *block.Num < 1:
		return sweep.Axis{}, fmt.Errorf("num must be at least 1, got %d", *block.Num)
	}

	shift := 0.0
	if block.Shift != nil {
		shift = *block.Shift
	}
	// The geometric progression is undefined when a shifted endpoint is
	// zero or the endpoints straddle zero; such values would leak into
	// engine flags and directory names as NaN.
	a, b := *block.Start+shift, *block.Stop+shift
	if a == 0 || b == 0 || (a < 0) != (b < 0) {
		return sweep.Axis{}, fmt.Errorf(
			"geometric range endpoints must be non-zero and share a sign after shift, got %g and %g", a, b)
	}
	return sweep.GeomAxis(block.Name, *block.Start, *block.Stop, *block.Num, shift), nil
}

// explicitValues evaluates the values expression, if present, into a Go
// float slice via cty.
func explicitValues(block *axisBlock) ([]float64, bool, error) {
	if block.Values == nil {
		return nil, false, nil
	}
	val, diags := block.Values.Value(nil)
	if diags.HasErrors() {
		return nil, false, fmt.Errorf("evaluating values: %w", diags)
	}
	if val.IsNull() {
		return nil, false, nil
	}

	listVal, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return nil, false, fmt.Errorf("values must be a list of numbers: %w", err)
	}
	var values []float64
	if err := gocty.FromCtyValue(listVal, &values); err != nil {
		return nil, false, fmt.Errorf("values must be a list of numbers: %w", err)
	}
	if len(values) == 0 {
		return nil, false, fmt.Errorf("values list is empty")
	}
	return values, true, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
