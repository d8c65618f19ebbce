package reactor

import "gonum.org/v1/gonum/mat"

// ComputeRateDerivative returns D with D[i][j] = d(dy_i/dt)/d(k_j), the
// derivative of each core species' production term with respect to the
// rate coefficient of core reaction j, evaluated at the current state.
//
// Because rate_j = kf_j*prodF - (kf_j/Kc_j)*prodR, both the forward and
// reverse terms scale linearly with kf_j, so the derivative is just the
// concentration product already used by the forward evaluation:
// d(rate_j)/d(kf_j) = prodF - prodR/Kc_j. No kinetics are re-derived here.
func (r *Reactor) ComputeRateDerivative() *mat.Dense {
	nr := r.reactionIndex.NumCore()
	d := mat.NewDense(r.numCore, nr, nil)
	r.computeConcentrations(r.y)
	for j := 0; j < nr; j++ {
		term := &r.terms[j]
		_, prodF, prodR := r.evalTerm(term)
		dRate := term.scale * (prodF - term.kcInv*prodR)
		for _, n := range term.net {
			if n.index >= r.numCore {
				continue
			}
			d.Set(n.index, j, float64(n.count)*dRate*r.V)
		}
	}
	return d
}
