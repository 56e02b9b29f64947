package sweep

import "iter"

// Space is the full setup space of a batch: every combination of problem,
// setup and grid assignment, in a fixed lexicographic order (problem
// outermost, setup next, grid assignment innermost with the last axis
// varying fastest).
type Space struct {
	problems []string
	setups   []string
	grid     []Axis
	layout   Layout
}

// NewSpace builds a space over the given ordered problems, setups and grid
// axes. The slices are copied; the space is immutable afterwards.
func NewSpace(problems, setups []string, grid []Axis, layout Layout) *Space {
	return &Space{
		problems: append([]string(nil), problems...),
		setups:   append([]string(nil), setups...),
		grid:     append([]Axis(nil), grid...),
		layout:   layout,
	}
}

// Count returns the number of descriptors the space enumerates, without
// enumerating them.
func (s *Space) Count() int {
	n := len(s.problems) * len(s.setups)
	for _, axis := range s.grid {
		n *= axis.Len()
	}
	return n
}

// All returns a lazy, restartable sequence of all descriptors in
// enumeration order, keyed by their position. Two calls with the same
// space yield identical sequences.
func (s *Space) All() iter.Seq2[int, *Descriptor] {
	return func(yield func(int, *Descriptor) bool) {
		index := 0
		for _, problem := range s.problems {
			for _, setup := range s.setups {
				if !s.eachAssignment(func(overrides []Override) bool {
					d := newDescriptor(index, problem, setup, overrides, s.layout)
					ok := yield(index, d)
					index++
					return ok
				}) {
					return
				}
			}
		}
	}
}

// At returns the descriptor at the given enumeration position, or nil
// when the position is out of range.
func (s *Space) At(index int) *Descriptor {
	for i, d := range s.All() {
		if i == index {
			return d
		}
	}
	return nil
}

// eachAssignment walks the cartesian product of the grid axes in declared
// order, invoking fn with a fresh Override slice per combination. With no
// grid it invokes fn exactly once with a nil assignment.
func (s *Space) eachAssignment(fn func([]Override) bool) bool {
	if len(s.grid) == 0 {
		return fn(nil)
	}

	// Odometer over axis value positions; the last axis ticks fastest.
	positions := make([]int, len(s.grid))
	for {
		overrides := make([]Override, len(s.grid))
		for i, axis := range s.grid {
			overrides[i] = Override{Option: axis.Name(), Value: axis.values[positions[i]]}
		}
		if !fn(overrides) {
			return false
		}

		i := len(positions) - 1
		for i >= 0 {
			positions[i]++
			if positions[i] < s.grid[i].Len() {
				break
			}
			positions[i] = 0
			i--
		}
		if i < 0 {
			return true
		}
	}
}
