package app

import (
	"errors"
	"fmt"
)

// Commands understood by Run.
const (
	CmdCount        = "count"
	CmdRun          = "run"
	CmdSummarize    = "summarize"
	CmdSetupSummary = "setup-summary"
	CmdGridCount    = "grid-count"
	CmdGridRun      = "grid-run"
	CmdGridProcess  = "grid-process"
)

// Config holds all the necessary configuration for an App instance to run
// one command.
type Config struct {
	Command string

	ManifestPath string
	LogFormat    string
	LogLevel     string

	// Executable is the engine binary (run commands only).
	Executable string
	// ResultsDir is the batch's result tree root.
	ResultsDir string
	// Workers is the process pool size; 1 means serial with console
	// passthrough.
	Workers int
	// RunIndex restricts a batch to the single descriptor at this
	// enumeration position; -1 runs everything.
	RunIndex int
	// Format selects the table export format for the summary commands.
	Format string
	// StrictMetrics turns a missing metrics file into a batch error
	// instead of a reported skip.
	StrictMetrics bool
}

// NewConfig validates a parsed configuration.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CmdCount, CmdRun, CmdSummarize, CmdSetupSummary,
		CmdGridCount, CmdGridRun, CmdGridProcess:
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if cfg.ManifestPath == "" {
		return nil, errors.New("manifest path cannot be empty")
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	return &cfg, nil
}
