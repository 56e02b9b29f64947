// Package manifest loads the HCL experiment manifest: the input problems,
// the named engine setups and the optional hyperparameter grid. The
// loaded manifest is an immutable value passed into enumeration; there is
// no process-wide experiment state.
package manifest

import "github.com/hashicorp/hcl/v2"

// fileSchema is the HCL-facing shape of a manifest file.
type fileSchema struct {
	// Directory layout, relative to the manifest file unless absolute.
	InputsDir  string `hcl:"inputs_dir,optional"`
	SetupsDir  string `hcl:"setups_dir,optional"`
	BaseConfig string `hcl:"base_config,optional"`

	// InputFlag selects the "--input-file" engine CLI form.
	InputFlag *bool `hcl:"input_flag,optional"`

	// Problems may be omitted; they are then discovered as *.cnf files
	// under inputs_dir.
	Problems []string `hcl:"problems,optional"`
	Setups   []string `hcl:"setups"`

	Axes []*axisBlock `hcl:"axis,block"`
}

// axisBlock declares one grid axis, either as an explicit value list or
// as a geometric range.
type axisBlock struct {
	Name string `hcl:"name,label"`

	// Values is kept as an expression so it can be evaluated and
	// type-converted through cty.
	Values hcl.Expression `hcl:"values,optional"`

	Start *float64 `hcl:"start,optional"`
	Stop  *float64 `hcl:"stop,optional"`
	Num   *int     `hcl:"num,optional"`
	Shift *float64 `hcl:"shift,optional"`
}
