// Package solver provides a variable-step implicit integrator for
// differential-algebraic systems F(t, y, y') = 0.
//
// The stepper uses backward differentiation formulas of order 1 and 2 with
// a damped Newton iteration per step. The system supplies its residual and
// closed-form Jacobian as callbacks; the Jacobian receives the coefficient
// cj = d(y')/d(y) implied by the current BDF formula, exactly as a
// DASSL-family integrator would pass it.
//
// A [Stepper] is an explicit handle owned by one caller: it keeps the
// integration state (current time, solution, step size, order history)
// across Advance calls, and nothing else shares it. Convergence problems
// surface as distinguishable errors, never panics.
package solver
