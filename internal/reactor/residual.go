package reactor

import "math"

// Residual evaluates the DAE residual F(t, y, ydot) into f. Differential
// rows read F[i] = ydot[i] - speciesRate[i]*V; with site balancing enabled
// the designated surface row instead carries the algebraic constraint
// sum(occupancy*amount) - totalSites = 0.
//
// The returned flag is false when the state is non-physical (entries more
// negative than tolerance) or the evaluation produced non-finite values;
// the stepper responds by shrinking its step and retrying, so a false here
// is recoverable, not fatal.
func (r *Reactor) Residual(t float64, y, ydot, f []float64) bool {
	for i := 0; i < r.numCore; i++ {
		if y[i] < -r.negTol {
			return false
		}
	}
	r.computeRates(y)
	for i := 0; i < r.numCore; i++ {
		f[i] = ydot[i] - r.spcRates[i]*r.V
	}
	if r.siteRow >= 0 {
		sum := 0.0
		for i := 0; i < r.numCore; i++ {
			if occ := r.speciesIndex.At(i).Occupancy(); occ > 0 {
				sum += float64(occ) * y[i]
			}
		}
		f[r.siteRow] = sum - r.totalSites
	}
	for i := 0; i < r.numCore; i++ {
		if math.IsNaN(f[i]) || math.IsInf(f[i], 0) {
			return false
		}
	}
	return true
}
