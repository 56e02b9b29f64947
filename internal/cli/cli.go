// Package cli parses the dpsweep command line into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/dpsweep/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageText = `
dpsweep - batch driver and metrics aggregator for DP elimination experiments.

Usage:
  dpsweep <command> [options] [arguments]

Commands:
  count                          Count the runs the manifest enumerates.
  run <dp-executable>            Run the experiment batch.
  summarize <results-dir>        Write per-run summary tables.
  setup-summary <results-dir>    Write the cross-setup comparison table.
  grid count                     Count the grid-search runs.
  grid run <dp-executable>       Run the hyperparameter grid search.
  grid process <results-dir>     Fold grid-search results into results.csv.

Run 'dpsweep <command> -h' for command options.
`

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating if the program should exit cleanly, or
// an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	if len(args) == 0 {
		fmt.Fprint(output, usageText)
		return nil, true, nil
	}

	command := args[0]
	rest := args[1:]
	if command == "-h" || command == "--help" {
		fmt.Fprint(output, usageText)
		return nil, true, nil
	}
	if command == "grid" {
		if len(rest) == 0 {
			return nil, false, &ExitError{Code: 2, Message: "grid needs a subcommand: count, run or process"}
		}
		command = "grid-" + rest[0]
		rest = rest[1:]
	}

	cfg := app.Config{
		Command:  command,
		Workers:  1,
		RunIndex: -1,
	}

	flagSet := flag.NewFlagSet("dpsweep "+command, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.StringVar(&cfg.ManifestPath, "manifest", "experiments.hcl", "Path to the experiment manifest.")
	flagSet.StringVar(&cfg.LogFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&cfg.LogLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	// Command-specific flags and positional arguments.
	var wantsExecutable, wantsResultsDir bool
	switch command {
	case app.CmdCount, app.CmdGridCount:
	case app.CmdRun:
		wantsExecutable = true
		flagSet.StringVar(&cfg.ResultsDir, "r", "results", "Directory for storing results.")
		flagSet.StringVar(&cfg.ResultsDir, "results-dir", "results", "Directory for storing results.")
		flagSet.IntVar(&cfg.Workers, "p", 1, "Number of processes spawned concurrently.")
		flagSet.IntVar(&cfg.Workers, "processes", 1, "Number of processes spawned concurrently.")
		flagSet.IntVar(&cfg.RunIndex, "i", -1, "Run only the single case at the given index.")
		flagSet.IntVar(&cfg.RunIndex, "run-index", -1, "Run only the single case at the given index.")
	case app.CmdGridRun:
		wantsExecutable = true
		flagSet.StringVar(&cfg.ResultsDir, "r", "results_grid_search", "Directory for storing results.")
		flagSet.StringVar(&cfg.ResultsDir, "results-dir", "results_grid_search", "Directory for storing results.")
		flagSet.IntVar(&cfg.RunIndex, "i", -1, "Run only the single case at the given index.")
		flagSet.IntVar(&cfg.RunIndex, "run-index", -1, "Run only the single case at the given index.")
	case app.CmdSummarize:
		wantsResultsDir = true
		flagSet.StringVar(&cfg.Format, "f", "md", "Format of exported tables: md, tex, csv or json.")
		flagSet.StringVar(&cfg.Format, "format", "md", "Format of exported tables: md, tex, csv or json.")
		flagSet.BoolVar(&cfg.StrictMetrics, "strict-metrics", false, "Fail instead of skipping runs without a metrics file.")
	case app.CmdSetupSummary:
		wantsResultsDir = true
		flagSet.StringVar(&cfg.Format, "f", "csv", "Format of the comparison table.")
		flagSet.StringVar(&cfg.Format, "format", "csv", "Format of the comparison table.")
		flagSet.BoolVar(&cfg.StrictMetrics, "strict-metrics", false, "Fail instead of skipping runs without a metrics file.")
	case app.CmdGridProcess:
		wantsResultsDir = true
		flagSet.BoolVar(&cfg.StrictMetrics, "strict-metrics", false, "Fail instead of skipping runs without a metrics file.")
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", command)}
	}

	if err := flagSet.Parse(rest); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "command", command)

	switch {
	case wantsExecutable:
		if flagSet.NArg() != 1 {
			return nil, false, &ExitError{Code: 2, Message: command + " needs exactly one argument: the path to the compiled DP executable"}
		}
		cfg.Executable = flagSet.Arg(0)
	case wantsResultsDir:
		if flagSet.NArg() != 1 {
			return nil, false, &ExitError{Code: 2, Message: command + " needs exactly one argument: the results directory"}
		}
		cfg.ResultsDir = flagSet.Arg(0)
	default:
		if flagSet.NArg() != 0 {
			return nil, false, &ExitError{Code: 2, Message: command + " takes no arguments"}
		}
	}

	logFormat := strings.ToLower(cfg.LogFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	cfg.LogFormat = logFormat

	logLevel := strings.ToLower(cfg.LogLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	cfg.LogLevel = logLevel

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", config.Command)
	return config, false, nil
}
