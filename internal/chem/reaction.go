package chem

import (
	"math"
	"strconv"
	"strings"
)

// Reaction is an elementary reaction over tracked species. Multiplicity is
// expressed by repeating a species in the reactant or product list, so
// H2 + 2X -> 2HX carries Reactants [H2 X X] and Products [HX HX].
type Reaction struct {
	Reactants []*Species
	Products  []*Species
	Kinetics  RateModel

	// Reversible reactions derive the reverse rate coefficient from the
	// equilibrium constant; irreversible reactions have no reverse term.
	Reversible bool
}

// IsSurface reports whether any participant is an adsorbate.
func (r *Reaction) IsSurface() bool {
	for _, s := range r.Reactants {
		if s.Adsorbate {
			return true
		}
	}
	for _, s := range r.Products {
		if s.Adsorbate {
			return true
		}
	}
	return false
}

// String renders the reaction equation, e.g. "H2 + 2 X <=> 2 HX".
func (r *Reaction) String() string {
	arrow := " -> "
	if r.Reversible {
		arrow = " <=> "
	}
	return sideString(r.Reactants) + arrow + sideString(r.Products)
}

func sideString(side []*Species) string {
	counts := make(map[*Species]int)
	var order []*Species
	for _, s := range side {
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	parts := make([]string, 0, len(order))
	for _, s := range order {
		if n := counts[s]; n > 1 {
			parts = append(parts, strconv.Itoa(n)+" "+s.Label)
		} else {
			parts = append(parts, s.Label)
		}
	}
	return strings.Join(parts, " + ")
}

// EquilibriumConstant returns the dimensionless activity-based equilibrium
// constant Ka(T) = exp(-dG0/(R*T)) from the species' free energies.
func (r *Reaction) EquilibriumConstant(T float64) float64 {
	dG := 0.0
	for _, s := range r.Products {
		dG += s.Thermo.FreeEnergy(T)
	}
	for _, s := range r.Reactants {
		dG -= s.Thermo.FreeEnergy(T)
	}
	return math.Exp(-dG / (GasConstant * T))
}

// ConcentrationEquilibrium converts Ka(T) to the concentration basis used
// by the rate laws: gas species activities are C/(P0/(R*T)) and adsorbate
// activities are C/sigma with sigma the surface site density in mol/m^2.
// The returned Kc relates the forward and reverse coefficients, kr = kf/Kc.
func (r *Reaction) ConcentrationEquilibrium(T, siteDensity float64) float64 {
	c0gas := RefPressure / (GasConstant * T)
	kc := r.EquilibriumConstant(T)
	for _, s := range r.Products {
		kc *= referenceConcentration(s, c0gas, siteDensity)
	}
	for _, s := range r.Reactants {
		kc /= referenceConcentration(s, c0gas, siteDensity)
	}
	return kc
}

func referenceConcentration(s *Species, c0gas, siteDensity float64) float64 {
	if s.Adsorbate {
		return siteDensity
	}
	return c0gas
}
