// Package stats implements the closed set of statistic functions used to
// reduce telemetry columns, plus the Pearson correlation used for
// heuristic-quality reporting. Every statistic is an independently
// constructible value so each one can be unit tested on its own.
package stats

import (
	"fmt"
	"math"
	"sort"
)

// Statistic reduces one column of samples to a single scalar. Degenerate
// inputs (empty columns, zero denominators) reduce to defined sentinels
// instead of NaN or Inf.
type Statistic interface {
	Name() string
	Apply(column []float64) float64
}

// Registry returns the full ordered statistic set applied to summary
// tables. The ratio statistic needs the grand total it normalizes by.
func Registry(total float64) []Statistic {
	return []Statistic{
		Count{},
		Sum{},
		Ratio{Total: total},
		Mean{},
		Median{},
		Std{},
		RelStd{},
		Max{},
		ArgMax{},
	}
}

// Count is the number of samples in the column.
type Count struct{}

func (Count) Name() string                { return "count" }
func (Count) Apply(col []float64) float64 { return float64(len(col)) }

// Sum is the plain column total.
type Sum struct{}

func (Sum) Name() string { return "sum" }
func (Sum) Apply(col []float64) float64 {
	var s float64
	for _, v := range col {
		s += v
	}
	return s
}

// Ratio is the column total as a fraction of a fixed grand total, scaled
// by 100000 so integer coercion keeps sub-percent resolution.
type Ratio struct {
	Total float64
}

func (Ratio) Name() string { return "ratio" }
func (r Ratio) Apply(col []float64) float64 {
	sum := Sum{}.Apply(col)
	if r.Total == 0 {
		// A zero total can only arise when every column it was derived
		// from is all-zero; anything else is a caller bug.
		if sum != 0 {
			panic(fmt.Sprintf("stats: ratio with zero total over column summing to %v", sum))
		}
		return 0
	}
	return sum / r.Total * 100_000
}

// Mean is the arithmetic mean, 0 for an empty column.
type Mean struct{}

func (Mean) Name() string { return "mean" }
func (Mean) Apply(col []float64) float64 {
	if len(col) == 0 {
		return 0
	}
	return Sum{}.Apply(col) / float64(len(col))
}

// Median is the middle sample (or midpoint of the two middle samples),
// 0 for an empty column.
type Median struct{}

func (Median) Name() string { return "median" }
func (Median) Apply(col []float64) float64 {
	if len(col) == 0 {
		return 0
	}
	sorted := append([]float64(nil), col...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Std is the population standard deviation, defined as 0 when fewer than
// two samples exist.
type Std struct{}

func (Std) Name() string { return "std" }
func (Std) Apply(col []float64) float64 {
	if len(col) < 2 {
		return 0
	}
	mean := Mean{}.Apply(col)
	var ss float64
	for _, v := range col {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(col)))
}

// RelStd is the standard deviation relative to the mean, in percent.
// When the mean is 0 it falls back to the plain standard deviation.
type RelStd struct{}

func (RelStd) Name() string { return "rel_std" }
func (RelStd) Apply(col []float64) float64 {
	std := Std{}.Apply(col)
	mean := Mean{}.Apply(col)
	if mean == 0 {
		return std
	}
	return std / mean * 100
}

// Max is the largest sample, 0 for an empty column.
type Max struct{}

func (Max) Name() string { return "max" }
func (Max) Apply(col []float64) float64 {
	if len(col) == 0 {
		return 0
	}
	max := col[0]
	for _, v := range col[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// ArgMax is the index of the first largest sample, 0 for an empty column.
type ArgMax struct{}

func (ArgMax) Name() string { return "argmax" }
func (ArgMax) Apply(col []float64) float64 {
	if len(col) == 0 {
		return 0
	}
	best := 0
	for i, v := range col {
		if v > col[best] {
			best = i
		}
	}
	return float64(best)
}

// Pearson computes the Pearson correlation coefficient of two series of
// equal length. It is defined as 0 when either series is empty or has no
// variance.
func Pearson(x, y []float64) float64 {
	n := min(len(x), len(y))
	if n == 0 {
		return 0
	}
	x, y = x[:n], y[:n]
	meanX := Mean{}.Apply(x)
	meanY := Mean{}.Apply(y)
	var cov, varX, varY float64
	for i := range n {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
