package chem

import "math"

// RateModel evaluates a reaction's forward rate coefficient. Units depend
// on the reaction's molecularity and phase; callers supply concentrations
// consistent with the coefficient they configured.
type RateModel interface {
	// Coefficient returns the forward rate coefficient at temperature T (K)
	// and pressure P (Pa).
	Coefficient(T, P float64) float64
}

// Scalable is implemented by rate models whose pre-exponential factor can
// be scaled, used by perturbation sweeps.
type Scalable interface {
	Scaled(factor float64) RateModel
}

// Arrhenius is the modified Arrhenius expression
// k = A * (T/T0)^n * exp(-Ea/(R*T)).
type Arrhenius struct {
	A  float64 // pre-exponential factor, SI units per reaction order
	N  float64 // temperature exponent
	Ea float64 // activation energy, J/mol
	T0 float64 // reference temperature, K
}

func (a *Arrhenius) Coefficient(T, P float64) float64 {
	t0 := a.T0
	if t0 == 0 {
		t0 = 1
	}
	return a.A * math.Pow(T/t0, a.N) * math.Exp(-a.Ea/(GasConstant*T))
}

func (a *Arrhenius) Scaled(factor float64) RateModel {
	return &Arrhenius{A: a.A * factor, N: a.N, Ea: a.Ea, T0: a.T0}
}

// SurfaceArrhenius is the Arrhenius form with an area-based pre-exponential
// factor, used for reactions involving adsorbates.
type SurfaceArrhenius struct {
	A  float64
	N  float64
	Ea float64
	T0 float64
}

func (a *SurfaceArrhenius) Coefficient(T, P float64) float64 {
	t0 := a.T0
	if t0 == 0 {
		t0 = 1
	}
	return a.A * math.Pow(T/t0, a.N) * math.Exp(-a.Ea/(GasConstant*T))
}

func (a *SurfaceArrhenius) Scaled(factor float64) RateModel {
	return &SurfaceArrhenius{A: a.A * factor, N: a.N, Ea: a.Ea, T0: a.T0}
}

// StickingCoefficient converts a dimensionless sticking probability
// gamma(T) = A * (T/T0)^n * exp(-Ea/(R*T)), capped at 1, into an adsorption
// rate coefficient via collision theory:
//
//	k = gamma(T) / sigma^m * sqrt(R*T / (2*pi*W))
//
// where sigma is the surface site density (mol/m^2), m the number of sites
// consumed, and W the molecular weight of the incident gas species (kg/mol).
type StickingCoefficient struct {
	A  float64
	N  float64
	Ea float64
	T0 float64

	SiteDensity     float64 // mol/m^2
	Sites           int     // sites consumed by adsorption
	MolecularWeight float64 // kg/mol
}

func (s *StickingCoefficient) Coefficient(T, P float64) float64 {
	t0 := s.T0
	if t0 == 0 {
		t0 = 1
	}
	gamma := s.A * math.Pow(T/t0, s.N) * math.Exp(-s.Ea/(GasConstant*T))
	if gamma > 1 {
		gamma = 1
	}
	m := s.Sites
	if m <= 0 {
		m = 1
	}
	return gamma / math.Pow(s.SiteDensity, float64(m)) *
		math.Sqrt(GasConstant*T/(2*math.Pi*s.MolecularWeight))
}

func (s *StickingCoefficient) Scaled(factor float64) RateModel {
	c := *s
	c.A *= factor
	return &c
}
