package reactor

import "math"

// State is the vector of molar amounts for every core species, gas and
// surface, in mol. The layout follows the species index order. The reactor
// mutates its state in place during integration; callers retaining history
// must Clone.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every entry is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Total returns the sum of all amounts.
func (s State) Total() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum
}
