// Package metrics loads the per-run telemetry document emitted by the
// elimination engine into its working directory.
package metrics

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the telemetry file the engine writes into its working
// directory after every run.
const FileName = "metrics.json"

// ErrNotFound reports that a run produced no metrics file. Callers treat
// it as a skippable condition, not a batch failure.
var ErrNotFound = errors.New("metrics file not found")

// MalformedError reports a metrics file that exists but cannot be used:
// unparsable JSON or a missing required namespace. It is scoped to one
// run and must never abort aggregation of the other runs.
type MalformedError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed metrics file %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed metrics file %s: %s", e.Path, e.Reason)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Document is one run's telemetry, split into four namespaces. All
// per-step sequences under one document describe the same sequence of
// algorithm steps. The document is read-only once loaded.
type Document struct {
	// Counters are scalar event counts.
	Counters map[string]int64 `json:"counters"`
	// Durations are per-step durations in microseconds.
	Durations map[string][]int64 `json:"durations"`
	// CumulativeDurations are whole-run duration totals in microseconds.
	CumulativeDurations map[string]int64 `json:"cumulative_durations"`
	// Series are arbitrary per-step numeric observations.
	Series map[string][]float64 `json:"series"`
}

// Load reads and validates the metrics document from a run's working
// directory. A missing file yields ErrNotFound; an unusable file yields
// a *MalformedError.
func Load(workDir string) (*Document, error) {
	path := filepath.Join(workDir, FileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &MalformedError{Path: path, Reason: "invalid JSON", Err: err}
	}

	// Engine versions differ in which metrics they emit, but the four
	// namespaces themselves are part of the schema contract.
	switch {
	case doc.Counters == nil:
		return nil, &MalformedError{Path: path, Reason: "missing 'counters' namespace"}
	case doc.Durations == nil:
		return nil, &MalformedError{Path: path, Reason: "missing 'durations' namespace"}
	case doc.CumulativeDurations == nil:
		return nil, &MalformedError{Path: path, Reason: "missing 'cumulative_durations' namespace"}
	case doc.Series == nil:
		return nil, &MalformedError{Path: path, Reason: "missing 'series' namespace"}
	}

	return &doc, nil
}

// Counter returns the named counter, or 0 when the engine did not emit it.
func (d *Document) Counter(name string) int64 {
	return d.Counters[name]
}

// Duration returns the named per-step duration sequence as floats, or an
// empty sequence when the engine did not emit it.
func (d *Document) Duration(name string) []float64 {
	steps := d.Durations[name]
	out := make([]float64, len(steps))
	for i, v := range steps {
		out[i] = float64(v)
	}
	return out
}

// Cumulative returns the named cumulative duration, or 0 when absent.
func (d *Document) Cumulative(name string) int64 {
	return d.CumulativeDurations[name]
}

// SeriesValues returns the named series, or an empty sequence when absent.
func (d *Document) SeriesValues(name string) []float64 {
	return append([]float64(nil), d.Series[name]...)
}
