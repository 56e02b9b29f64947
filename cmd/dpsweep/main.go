package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/dpsweep/internal/app"
	"github.com/vk/dpsweep/internal/cli"
	"github.com/vk/dpsweep/internal/export"
	"github.com/vk/dpsweep/internal/orch"
)

// main is the entrypoint for the dpsweep tool.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW, errW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	a, err := app.NewApp(outW, errW, cfg)
	if err != nil {
		return err
	}
	return a.Run(context.Background(), cfg)
}

// exitCode maps an error to the documented process exit codes: 2 for
// usage errors, 1 for invalid executable/results paths and any other
// failure.
func exitCode(err error) int {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var badFormat *export.ErrUnknownFormat
	switch {
	case errors.Is(err, orch.ErrTooFewRuns),
		errors.Is(err, app.ErrNoGrid),
		errors.As(err, &badFormat):
		return 2
	default:
		return 1
	}
}
