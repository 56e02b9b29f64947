package orch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/dpsweep/internal/sweep"
)

// LogFileName is the combined stdout/stderr capture written into a run's
// working directory when executing in parallel mode.
const LogFileName = "out.txt"

// Outcome records what happened to one run. Exit codes are captured, not
// interpreted: a nonzero code is a normal reported result.
type Outcome struct {
	Descriptor *sweep.Descriptor
	ExitCode   int
	Duration   time.Duration
	// LogPath is the captured output log, empty in serial mode where
	// output passes through to the console.
	LogPath string
	// Err is set only when the process could not be run at all.
	Err error
}

// runOne executes a single engine process in the given working directory
// and measures its wall-clock runtime with the monotonic clock. In
// parallel mode all output is redirected into LogFileName so concurrent
// runs cannot interleave on the console.
func runOne(ctx context.Context, command []string, workDir string, parallel bool) Outcome {
	out := Outcome{ExitCode: -1}

	var sink *os.File
	if parallel {
		logPath := filepath.Join(workDir, LogFileName)
		f, err := os.Create(logPath)
		if err != nil {
			out.Err = fmt.Errorf("creating run log: %w", err)
			return out
		}
		defer f.Close()
		sink = f
		out.LogPath = logPath

		fmt.Fprintln(f, strings.Join(command, " "))
		fmt.Fprintln(f)
		fmt.Fprintln(f, "output:")
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = workDir
	if parallel {
		cmd.Stdout = sink
		cmd.Stderr = sink
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	start := time.Now()
	err := cmd.Run()
	out.Duration = time.Since(start)

	switch e := err.(type) {
	case nil:
		out.ExitCode = 0
	case *exec.ExitError:
		out.ExitCode = e.ExitCode()
	default:
		out.Err = err
	}

	if parallel {
		fmt.Fprintln(sink)
		fmt.Fprintf(sink, "Command exited with code %d\n", out.ExitCode)
		result := "Experiment finished"
		if out.ExitCode != 0 {
			result = "Experiment failed"
		}
		fmt.Fprintf(sink, "========== %s, runtime %s ==========\n", result, out.Duration)
	}
	return out
}
