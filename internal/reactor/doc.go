// Package reactor implements an isothermal batch reactor coupling
// gas-phase chemistry with reactions on a catalytic surface, formulated as
// a differential-algebraic system and advanced by an implicit stepper.
//
// The state vector holds the molar amount of every core species. Gas
// species react at molar concentration y/V and adsorbates at surface
// concentration y/A; surface reaction rates are folded to volumetric units
// through the surface-to-volume ratio so a single production-rate vector
// drives all differential equations.
//
// The core evaluation contract is three callbacks over that state:
//
//   - [Reactor.Residual] assembles F(t, y, y') = 0
//   - [Reactor.Jacobian] computes dF/dy + cj*dF/dy' in closed form
//   - [Reactor.ComputeRateDerivative] gives d(y')/dk per rate coefficient
//
// each validated against an independent finite-difference path. A
// [Reactor] owns one stepper handle and walks the state machine
// Uninitialized -> Initialized -> Advancing -> Terminated | Failed.
package reactor
