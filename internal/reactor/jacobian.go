package reactor

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Jacobian computes J = dF/dy + cj*dF/dydot in closed form into dst
// (numCore x numCore). Since F[i] = ydot[i] - rate[i]*V on differential
// rows, dF/dydot contributes cj on their diagonal, and dF/dy follows the
// product rule over each reaction's power-law concentration dependence.
// Entries for species pairs sharing no reaction stay exactly zero.
func (r *Reactor) Jacobian(t float64, y, ydot []float64, cj float64, dst *mat.Dense) {
	dst.Zero()
	r.computeConcentrations(y)
	for j := 0; j < r.reactionIndex.NumCore(); j++ {
		term := &r.terms[j]
		for pi, p := range term.reactants {
			d := term.kf * r.sideDerivative(term.reactants, pi) * r.dCdy[p.index] * term.scale
			r.accumulate(dst, term, p.index, d)
		}
		if term.krev != 0 {
			for pi, p := range term.products {
				d := -term.krev * r.sideDerivative(term.products, pi) * r.dCdy[p.index] * term.scale
				r.accumulate(dst, term, p.index, d)
			}
		}
	}
	for i := 0; i < r.numCore; i++ {
		dst.Set(i, i, dst.At(i, i)+cj)
	}
	if r.siteRow >= 0 {
		// Algebraic constraint row: occupancy weights, no cj contribution.
		for k := 0; k < r.numCore; k++ {
			dst.Set(r.siteRow, k, float64(r.speciesIndex.At(k).Occupancy()))
		}
	}
}

// sideDerivative differentiates the concentration product of one reaction
// side with respect to the species at position pi, leaving out the dC/dy
// factor: d(prod_q C_q^m_q)/dC_p = m_p*C_p^(m_p-1) * prod_{q!=p} C_q^m_q.
func (r *Reactor) sideDerivative(side []power, pi int) float64 {
	d := 1.0
	for qi, q := range side {
		if qi == pi {
			d *= float64(q.count) * pow(r.conc[q.index], q.count-1)
		} else {
			d *= pow(r.conc[q.index], q.count)
		}
	}
	return d
}

// accumulate spreads d(rate_j)/dy_k over the rows of every species the
// reaction produces or consumes.
func (r *Reactor) accumulate(dst *mat.Dense, term *reactionTerm, k int, dRate float64) {
	for _, n := range term.net {
		dst.Set(n.index, k, dst.At(n.index, k)-r.V*float64(n.count)*dRate)
	}
}

// FiniteDifferenceJacobian approximates the Jacobian by forward
// differences with perturbation delta = 1e-6 * sum(y). It is the reference
// oracle the closed-form path is validated against and is kept as an
// independent code path; it allocates freely and is not meant for use
// inside the stepper.
func (r *Reactor) FiniteDifferenceJacobian(t float64, y, ydot []float64, cj float64) *mat.Dense {
	n := r.numCore
	jac := mat.NewDense(n, n, nil)
	f0 := make([]float64, n)
	f1 := make([]float64, n)
	yp := make([]float64, n)
	dp := make([]float64, n)
	copy(yp, y)
	copy(dp, ydot)
	r.Residual(t, yp, dp, f0)

	delta := 1e-6 * floats.Sum(y)
	if delta == 0 {
		delta = 1e-12
	}
	for k := 0; k < n; k++ {
		yp[k] += delta
		r.Residual(t, yp, dp, f1)
		yp[k] -= delta
		for i := 0; i < n; i++ {
			jac.Set(i, k, (f1[i]-f0[i])/delta)
		}
		if cj != 0 {
			dp[k] += delta
			r.Residual(t, yp, dp, f1)
			dp[k] -= delta
			for i := 0; i < n; i++ {
				jac.Set(i, k, jac.At(i, k)+cj*(f1[i]-f0[i])/delta)
			}
		}
	}
	return jac
}
