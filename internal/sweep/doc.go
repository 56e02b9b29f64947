// Package sweep enumerates the cartesian product of input problems,
// experiment setups and optional numeric grid axes into a deterministic,
// ordered sequence of run descriptors.
package sweep
