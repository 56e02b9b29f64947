package sweep

import (
	"math"
	"strconv"
)

// Axis is one named numeric dimension of a parameter grid. Its value
// sequence is fixed at construction time and never mutated.
type Axis struct {
	name   string
	values []float64
}

// NewAxis builds an axis from an explicit, ordered value list.
func NewAxis(name string, values []float64) Axis {
	vs := make([]float64, len(values))
	copy(vs, values)
	return Axis{name: name, values: vs}
}

// GeomAxis builds an axis whose values follow a geometric distribution
// between start and stop. The shift moves the distribution so that ranges
// touching zero stay well-defined: the sequence is
// geomspace(start+shift, stop+shift, num) - shift, rounded to 2 decimals.
func GeomAxis(name string, start, stop float64, num int, shift float64) Axis {
	values := make([]float64, num)
	a := start + shift
	b := stop + shift
	for i := range num {
		v := a
		if num > 1 {
			v = a * math.Pow(b/a, float64(i)/float64(num-1))
		}
		values[i] = round2(v - shift)
	}
	return Axis{name: name, values: values}
}

// Name returns the axis name, which doubles as the engine option name.
func (a Axis) Name() string { return a.name }

// Len returns the number of values on the axis.
func (a Axis) Len() int { return len(a.values) }

// Values returns a copy of the ordered value sequence.
func (a Axis) Values() []float64 {
	vs := make([]float64, len(a.values))
	copy(vs, a.values)
	return vs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Override is a single grid-axis assignment, rendered on the engine
// command line as "--<option> <value>".
type Override struct {
	Option string
	Value  float64
}

// FormatValue renders the value with fixed precision so that derived
// directory names stay unique, short and filesystem-safe.
func (o Override) FormatValue() string {
	return strconv.FormatFloat(o.Value, 'f', 2, 64)
}

// Flag renders the engine command-line flag for this override.
func (o Override) Flag() string {
	return "--" + o.Option
}
