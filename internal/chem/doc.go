// Package chem provides the chemistry collaborators consumed by the reactor
// core: species with thermodynamic data, rate-coefficient models, and
// reactions over gas-phase and surface-adsorbed species.
//
// All quantities are SI: J, mol, m, s, K. Unit conversion happens at the
// configuration boundary, not here.
//
//   - [Species]: a tracked chemical species, gas-phase or adsorbate
//   - [ThermoData]: tabulated heat capacity with analytic H, S, G
//   - [Arrhenius], [SurfaceArrhenius], [StickingCoefficient]: rate models
//   - [Reaction]: stoichiometry, reversibility and equilibrium constants
package chem
