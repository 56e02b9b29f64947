package orch

import (
	"github.com/vk/dpsweep/internal/fsutil"
	"github.com/vk/dpsweep/internal/sweep"
)

// Options fixes the per-batch parameters of command construction.
type Options struct {
	// Executable is the path to the elimination engine binary.
	Executable string
	// BaseConfig is the shared engine config passed to every run.
	BaseConfig string
	// InputFlag selects the engine's "--input-file <path>" form instead
	// of the bare positional argument (newer engine versions accept
	// both, older ones only the flag form).
	InputFlag bool
}

// BuildCommand assembles the full argument list for one run. The order of
// the repeated --config flags is a contract: inside the engine, later
// files override earlier ones key-by-key, so base config comes first,
// then the setup config, then the optional per-problem config. Grid
// override flags come last and therefore always win.
func BuildCommand(opts Options, d *sweep.Descriptor) []string {
	command := []string{opts.Executable}

	if opts.InputFlag {
		command = append(command, "--input-file", d.InputFormula)
	} else {
		command = append(command, d.InputFormula)
	}

	command = append(command, "--config", opts.BaseConfig)
	command = append(command, "--config", d.SetupConfig)
	if fsutil.FileExists(d.ProblemConfig) {
		command = append(command, "--config", d.ProblemConfig)
	}

	for _, o := range d.Overrides {
		command = append(command, o.Flag(), o.FormatValue())
	}
	return command
}
